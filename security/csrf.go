package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// CSRFToken returns the session's CSRF token, creating and persisting one on
// first use. Repeated calls within a session return the same token.
func CSRFToken(c *gin.Context) string {
	sess := sessions.Default(c)
	if tok, ok := sess.Get(sessionCSRFKey).(string); ok && tok != "" {
		return tok
	}
	buf := make([]byte, 32)
	rand.Read(buf)
	tok := base64.RawURLEncoding.EncodeToString(buf)
	sess.Set(sessionCSRFKey, tok)
	_ = sess.Save()
	return tok
}

// RequireCSRF rejects mutating requests whose token does not match the
// session's. It runs before the current user is resolved, so forged requests
// fail the same way whether or not the caller is logged in.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mutatingMethods[c.Request.Method] {
			c.Next()
			return
		}

		sent := c.GetHeader("X-CSRF-Token")
		if sent == "" {
			sent = c.PostForm("csrf_token")
		}
		tok, _ := sessions.Default(c).Get(sessionCSRFKey).(string)
		if tok == "" || sent == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(sent)) != 1 {
			c.String(http.StatusBadRequest, "Bad CSRF token")
			c.Abort()
			return
		}
		c.Next()
	}
}
