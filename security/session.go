package security

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey  = "user_id"
	sessionLoginAtKey = "login_at"
	sessionCSRFKey    = "_csrf_token"
)

// SessionOptions returns the cookie options shared by the session store.
func SessionOptions(maxAgeSeconds int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// LogInSession wipes any prior session state and marks the session as
// belonging to userID for the configured number of minutes.
func LogInSession(c *gin.Context, userID uint, minutes int) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(sessionUserIDKey, userID)
	sess.Set(sessionLoginAtKey, time.Now().UTC().Format(time.RFC3339))
	sess.Options(SessionOptions(minutes * 60))
	_ = sess.Save()
}

// DestroySession clears all session state. Flashes added afterwards in the
// same request still reach the next page.
func DestroySession(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
}

// SessionUserID returns the logged-in user id if the session is still within
// its lifetime. Expiry is enforced here, server-side: the cookie's own
// Max-Age only advises the browser. Activity within the window refreshes the
// session; an expired session is destroyed.
func SessionUserID(c *gin.Context, minutes int) (uint, bool) {
	sess := sessions.Default(c)
	id, ok := sess.Get(sessionUserIDKey).(uint)
	if !ok {
		return 0, false
	}

	raw, _ := sess.Get(sessionLoginAtKey).(string)
	lastActive, err := time.Parse(time.RFC3339, raw)
	if err != nil || time.Since(lastActive) > time.Duration(minutes)*time.Minute {
		DestroySession(c)
		return 0, false
	}

	sess.Set(sessionLoginAtKey, time.Now().UTC().Format(time.RFC3339))
	_ = sess.Save()
	return id, true
}
