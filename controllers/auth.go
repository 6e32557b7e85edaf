package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/middleware"
	"github.com/541v4r54n/Web-Security-Experiment/models"
	"github.com/541v4r54n/Web-Security-Experiment/security"
	"github.com/541v4r54n/Web-Security-Experiment/services"
)

func Index(c *gin.Context) {
	render(c, "index.html", nil)
}

func RegisterPage(c *gin.Context) {
	render(c, "register.html", nil)
}

func RegisterPost(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		security.AddFlash(c, "danger", "Username and password must not be empty")
		redirect(c, "/register")
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		security.AddFlash(c, "warning", "Username already taken")
		redirect(c, "/register")
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		security.AddFlash(c, "danger", "Registration failed, please retry")
		redirect(c, "/register")
		return
	}

	// The very first registered account becomes the admin.
	var count int64
	database.DB.Model(&models.User{}).Count(&count)

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      count == 0,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		security.AddFlash(c, "danger", "Registration failed, please retry")
		redirect(c, "/register")
		return
	}

	services.LogAction(c, &user.ID, "register", "username="+username)
	security.AddFlash(c, "success", "Account created, please log in")
	redirect(c, "/login")
}

func LoginPage(c *gin.Context) {
	render(c, "login.html", gin.H{"Next": c.Query("next")})
}

func LoginPost(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	var user models.User
	err := database.DB.Where("username = ?", username).First(&user).Error
	if err != nil || !security.CheckPassword(user.PasswordHash, password) {
		// Do not reveal whether the username exists.
		services.LogAction(c, nil, "login_failed", "username="+username)
		security.AddFlash(c, "danger", "Invalid username or password")
		redirect(c, "/login")
		return
	}

	security.LogInSession(c, user.ID, cfg.SessionMinutes)
	services.LogAction(c, &user.ID, "login", "username="+username)
	security.AddFlash(c, "success", "Logged in")

	if strings.HasPrefix(next, "/") {
		redirect(c, next)
		return
	}
	redirect(c, "/")
}

func Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	security.DestroySession(c)
	services.LogAction(c, &user.ID, "logout", "")
	security.AddFlash(c, "info", "Logged out")
	redirect(c, "/")
}

func ProfilePage(c *gin.Context) {
	render(c, "profile.html", nil)
}

func ProfilePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	displayName := strings.TrimSpace(c.PostForm("display_name"))
	description := strings.TrimSpace(c.PostForm("description"))

	if err := database.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"display_name": displayName,
		"description":  description,
	}).Error; err != nil {
		security.AddFlash(c, "danger", "Saving profile failed")
		redirect(c, "/profile")
		return
	}

	services.LogAction(c, &user.ID, "profile_update", "")
	security.AddFlash(c, "success", "Profile saved")
	redirect(c, "/profile")
}

// AccountDelete removes the caller's own account. The username must be
// retyped exactly, guarding against an accidental click. Owned images are
// cascade-deleted and audit rows keep a nulled user id.
func AccountDelete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	confirm := strings.TrimSpace(c.PostForm("confirm"))

	if confirm != user.Username {
		security.AddFlash(c, "warning", "Type your username to confirm deletion")
		redirect(c, "/profile")
		return
	}

	removeUserImageFiles(user.ID)
	security.DestroySession(c)
	if err := database.DB.Delete(&models.User{}, user.ID).Error; err != nil {
		security.AddFlash(c, "danger", "Account deletion failed")
		redirect(c, "/profile")
		return
	}

	services.LogAction(c, nil, "account_deleted", fmt.Sprintf("user_id=%d", user.ID))
	security.AddFlash(c, "info", "Account deleted")
	redirect(c, "/")
}

func UsersPage(c *gin.Context) {
	var users []models.User
	database.DB.Order("id DESC").Find(&users)
	render(c, "users.html", gin.H{"Users": users})
}

func UserDelete(c *gin.Context) {
	me := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		security.AddFlash(c, "warning", "No such user")
		redirect(c, "/users")
		return
	}
	if uint(id) == me.ID {
		security.AddFlash(c, "warning", "Use your profile page to delete your own account")
		redirect(c, "/users")
		return
	}

	var target models.User
	if err := database.DB.First(&target, uint(id)).Error; err != nil {
		security.AddFlash(c, "warning", "No such user")
		redirect(c, "/users")
		return
	}

	removeUserImageFiles(target.ID)
	if err := database.DB.Delete(&models.User{}, target.ID).Error; err != nil {
		security.AddFlash(c, "danger", "Deleting user failed")
		redirect(c, "/users")
		return
	}

	services.LogAction(c, &me.ID, "user_delete", fmt.Sprintf("target_id=%d username=%s", target.ID, target.Username))
	security.AddFlash(c, "info", "User deleted")
	redirect(c, "/users")
}

func AuditPage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var logs []models.AuditLog
	database.DB.Where("user_id = ?", user.ID).Order("id DESC").Limit(200).Find(&logs)
	render(c, "audit.html", gin.H{"Logs": logs})
}

func APIAudit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var logs []models.AuditLog
	database.DB.Where("user_id = ?", user.ID).Order("id DESC").Limit(50).Find(&logs)
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func APIHealth(c *gin.Context) {
	var summary gin.H
	if user := middleware.CurrentUser(c); user != nil {
		summary = gin.H{"id": user.ID, "username": user.Username}
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": time.Now().Format(time.RFC3339),
		"user": summary,
	})
}

// DebugWhoami is a local troubleshooting endpoint; do not expose publicly.
func DebugWhoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ip":   c.ClientIP(),
		"ua":   c.Request.UserAgent(),
		"user": middleware.CurrentUser(c),
	})
}

// RedirectLabs is a stable alias for the labs index, kept for links in
// course material.
func RedirectLabs(c *gin.Context) {
	redirect(c, "/labs")
}
