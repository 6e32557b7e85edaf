package security

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash is a one-shot status message shown on the next rendered page.
// Category is one of success, info, warning, danger.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// AddFlash queues a message in the session for the next page render.
func AddFlash(c *gin.Context, category, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(Flash{Category: category, Message: message})
	_ = sess.Save()
}

// TakeFlashes drains and returns the queued messages.
func TakeFlashes(c *gin.Context) []Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save()
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
