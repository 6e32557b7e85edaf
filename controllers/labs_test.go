package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/models"
)

// seededContent is the body of one of the fixture rows; its presence in a
// page proves fixture rows were returned.
const seededContent = "This table is used for SQL injection lab."

func TestSQLInjectionSecureTreatsInputAsLiteral(t *testing.T) {
	tc := newTestApp(t)
	loginFreshUser(tc, "alice")

	w := tc.postForm("/labs/sql-injection/secure", url.Values{"keyword": {"%' OR 1=1 --"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), seededContent, "bound parameters must not match all rows")

	// An honest keyword still matches.
	w = tc.postForm("/labs/sql-injection/secure", url.Values{"keyword": {"injection lab"}})
	assert.Contains(t, w.Body.String(), seededContent)
}

func TestSQLInjectionInsecureIsInjectable(t *testing.T) {
	tc := newTestApp(t)
	loginFreshUser(tc, "alice")

	w := tc.postForm("/labs/sql-injection/insecure", url.Values{"keyword": {"%' OR 1=1 --"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), seededContent, "interpolated input matches every row")
}

func TestSQLInjectionInsecureSurvivesMalformedInput(t *testing.T) {
	tc := newTestApp(t)
	loginFreshUser(tc, "alice")

	// An unbalanced quote breaks the statement; the error is shown inline.
	w := tc.postForm("/labs/sql-injection/insecure", url.Values{"keyword": {"'"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), seededContent)
}

func TestSQLInjectionLabIsAudited(t *testing.T) {
	tc := newTestApp(t)
	alice := loginFreshUser(tc, "alice")

	tc.postForm("/labs/sql-injection/secure", url.Values{"keyword": {"abc"}})

	var entry models.AuditLog
	require.NoError(t, database.DB.Where("action = ?", "lab_sql_injection_secure").First(&entry).Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, alice.ID, *entry.UserID)
	assert.Equal(t, "abc", entry.Detail)
}

func TestCommandInjectionSecureRejectsBadHost(t *testing.T) {
	tc := newTestApp(t)
	loginFreshUser(tc, "alice")

	w := tc.postForm("/labs/command-injection/secure", url.Values{"host": {"localhost; rm -rf /"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/labs/command-injection", w.Header().Get("Location"))

	// Rejected before any process runs, so nothing is audited for it.
	var count int64
	database.DB.Model(&models.AuditLog{}).Where("action = ?", "lab_command_injection_secure").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCommandInjectionInsecureRequiresHost(t *testing.T) {
	tc := newTestApp(t)
	loginFreshUser(tc, "alice")

	w := tc.postForm("/labs/command-injection/insecure", url.Values{"host": {"   "}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/labs/command-injection", w.Header().Get("Location"))
}

func TestLabsRequireLogin(t *testing.T) {
	tc := newTestApp(t)

	w := tc.get("/labs/sql-injection")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?next=")
}
