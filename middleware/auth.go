package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/models"
	"github.com/541v4r54n/Web-Security-Experiment/security"
)

const userContextKey = "current_user"

// LoadCurrentUser resolves the session's user against the users table and
// attaches it to the request context. An expired session or one pointing at
// a deleted user resolves to no user, never a stale identity.
func LoadCurrentUser(sessionMinutes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := security.SessionUserID(c, sessionMinutes); ok {
			var user models.User
			if err := database.DB.First(&user, id).Error; err == nil {
				c.Set(userContextKey, &user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by LoadCurrentUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// LoginRequired redirects anonymous requests to the login page, preserving
// the original path as the next parameter.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// AdminRequired additionally redirects non-admin users to the home page
// with a visible warning.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			redirectToLogin(c)
			return
		}
		if !user.IsAdmin {
			security.AddFlash(c, "warning", "Admin privileges required")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
	c.Abort()
}
