package controllers

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/541v4r54n/Web-Security-Experiment/config"
	"github.com/541v4r54n/Web-Security-Experiment/middleware"
	"github.com/541v4r54n/Web-Security-Experiment/security"
	"github.com/541v4r54n/Web-Security-Experiment/templates"
)

var cfg *config.Config

// NewRouter assembles the full application: session store, CSRF check,
// current-user loading, templates and routes. The CSRF middleware is
// installed before user loading so forged mutating requests are rejected
// uniformly regardless of login state.
func NewRouter(c *config.Config) *gin.Engine {
	cfg = c

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(security.SessionOptions(cfg.SessionMinutes * 60))
	r.Use(sessions.Sessions("websec_session", store))
	r.Use(security.RequireCSRF())
	r.Use(middleware.LoadCurrentUser(cfg.SessionMinutes))

	r.SetHTMLTemplate(template.Must(template.ParseFS(templates.FS, "*.html")))

	r.GET("/", Index)
	r.GET("/api/health", APIHealth)
	r.GET("/_debug/whoami", DebugWhoami)
	r.GET("/_redirect/labs", RedirectLabs)

	r.GET("/register", RegisterPage)
	r.POST("/register", RegisterPost)
	r.GET("/login", LoginPage)
	r.POST("/login", LoginPost)

	auth := r.Group("", middleware.LoginRequired())
	auth.POST("/logout", Logout)
	auth.GET("/profile", ProfilePage)
	auth.POST("/profile", ProfilePost)
	auth.POST("/account/delete", AccountDelete)
	auth.GET("/audit", AuditPage)
	auth.GET("/api/audit", APIAudit)
	auth.GET("/api/images", APIImages)

	admin := r.Group("", middleware.AdminRequired())
	admin.GET("/users", UsersPage)
	admin.POST("/users/:id/delete", UserDelete)

	images := r.Group("/images", middleware.LoginRequired())
	images.GET("", ImagesPage)
	images.POST("/upload", ImageUpload)
	images.POST("/bulk", ImagesBulk)
	images.GET("/:id", ImageDetail)
	images.GET("/:id/preview", ImagePreview)
	images.GET("/:id/original", ImageOriginal)
	images.GET("/:id/download", ImageDownload)
	images.POST("/:id/delete", ImageDelete)

	labs := r.Group("/labs", middleware.LoginRequired())
	labs.GET("", LabsIndex)
	labs.GET("/sql-injection", SQLInjectionPage)
	labs.POST("/sql-injection/insecure", SQLInjectionInsecure)
	labs.POST("/sql-injection/secure", SQLInjectionSecure)
	labs.GET("/command-injection", CommandInjectionPage)
	labs.POST("/command-injection/insecure", CommandInjectionInsecure)
	labs.POST("/command-injection/secure", CommandInjectionSecure)

	return r
}
