package services

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/models"
)

// LogAction appends an audit trail entry attributed to userID (nil for
// anonymous actions such as failed logins). Write failures are logged and
// never fail the surrounding request.
func LogAction(c *gin.Context, userID *uint, action, detail string) {
	entry := models.AuditLog{
		UserID: userID,
		Action: action,
		Detail: detail,
		IP:     c.ClientIP(),
		UA:     c.Request.UserAgent(),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		slog.Error("audit write failed", "action", action, "err", err)
	}
}
