package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/middleware"
	"github.com/541v4r54n/Web-Security-Experiment/models"
	"github.com/541v4r54n/Web-Security-Experiment/security"
	"github.com/541v4r54n/Web-Security-Experiment/services"
)

func LabsIndex(c *gin.Context) {
	render(c, "labs_index.html", nil)
}

func SQLInjectionPage(c *gin.Context) {
	render(c, "sql_injection.html", nil)
}

// SQLInjectionInsecure interpolates the raw keyword into the query string.
// This is the vulnerability being demonstrated; do not copy this pattern.
func SQLInjectionInsecure(c *gin.Context) {
	user := middleware.CurrentUser(c)
	keyword := strings.TrimSpace(c.PostForm("keyword"))

	sqlText := fmt.Sprintf(
		"SELECT id, title, content FROM notes WHERE title LIKE '%%%s%%' OR content LIKE '%%%s%%' ORDER BY id DESC LIMIT 50",
		keyword, keyword,
	)

	var notes []models.Note
	var errMsg string
	if err := database.DB.Raw(sqlText).Scan(&notes).Error; err != nil {
		notes = nil
		errMsg = err.Error()
	}

	services.LogAction(c, &user.ID, "lab_sql_injection_insecure", keyword)
	render(c, "sql_injection.html", gin.H{
		"Insecure": gin.H{"Keyword": keyword, "SQL": sqlText, "Rows": notes, "Error": errMsg},
	})
}

// SQLInjectionSecure issues the structurally identical query with bound
// parameters.
func SQLInjectionSecure(c *gin.Context) {
	user := middleware.CurrentUser(c)
	keyword := strings.TrimSpace(c.PostForm("keyword"))
	like := "%" + keyword + "%"

	const sqlText = "SELECT id, title, content FROM notes WHERE title LIKE ? OR content LIKE ? ORDER BY id DESC LIMIT 50"

	var notes []models.Note
	var errMsg string
	if err := database.DB.Raw(sqlText, like, like).Scan(&notes).Error; err != nil {
		notes = nil
		errMsg = err.Error()
	}

	services.LogAction(c, &user.ID, "lab_sql_injection_secure", keyword)
	render(c, "sql_injection.html", gin.H{
		"Secure": gin.H{"Keyword": keyword, "SQL": sqlText, "Rows": notes, "Error": errMsg},
	})
}

func CommandInjectionPage(c *gin.Context) {
	render(c, "command_injection.html", nil)
}

// CommandInjectionInsecure concatenates the host into a single command line
// executed through the shell. This is the vulnerability being demonstrated.
func CommandInjectionInsecure(c *gin.Context) {
	user := middleware.CurrentUser(c)
	host := strings.TrimSpace(c.PostForm("host"))

	if host == "" {
		security.AddFlash(c, "warning", "Enter a host first")
		redirect(c, "/labs/command-injection")
		return
	}

	cmdline := strings.Join(services.PingArgs(host), " ")
	output, err := services.RunShell(cmdline)
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}

	services.LogAction(c, &user.ID, "lab_command_injection_insecure", host)
	render(c, "command_injection.html", gin.H{
		"Insecure": gin.H{"Host": host, "Cmd": cmdline, "Output": output, "Error": errMsg},
	})
}

// CommandInjectionSecure validates the host grammar before any process is
// started, then invokes ping as an argument vector with no shell.
func CommandInjectionSecure(c *gin.Context) {
	user := middleware.CurrentUser(c)
	host := strings.TrimSpace(c.PostForm("host"))

	if !security.ValidateHostnameOrIP(host) {
		security.AddFlash(c, "danger", "Invalid host (only hostnames or IP addresses are allowed)")
		redirect(c, "/labs/command-injection")
		return
	}

	args := services.PingArgs(host)
	output, err := services.RunArgs(args)
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}

	services.LogAction(c, &user.ID, "lab_command_injection_secure", host)
	render(c, "command_injection.html", gin.H{
		"Secure": gin.H{"Host": host, "Cmd": strings.Join(args, " "), "Output": output, "Error": errMsg},
	})
}
