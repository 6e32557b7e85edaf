package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/middleware"
	"github.com/541v4r54n/Web-Security-Experiment/security"
)

// render draws an HTML page with the ambient fields every template expects:
// the current user, pending flash messages and the session CSRF token.
func render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = security.TakeFlashes(c)
	data["CSRFToken"] = security.CSRFToken(c)
	c.HTML(http.StatusOK, name, data)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
