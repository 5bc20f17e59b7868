package server

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/config"
	"design-studio/internal/handlers"
	"design-studio/internal/metrics"
	"design-studio/internal/middleware"
	"design-studio/internal/view"
	"design-studio/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "design_session"

// Deps — всё, что роутеру нужно от остального приложения.
type Deps struct {
	Handlers *handlers.Handler
	Identity middleware.IdentityResolver
	Media    http.FileSystem
}

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len([]rune(prefix)) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + strings.TrimPrefix(path, "/")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006 15:04")
}

// fieldError достаёт сообщение для поля; в шаблон может прийти nil.
func fieldError(errs any, field string) string {
	if fe, ok := errs.(apperr.FieldErrors); ok {
		return fe[field]
	}
	return ""
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"maskEmail":  maskEmail,
		"mediaURL":   mediaURL,
		"formatTime": formatTime,
		"fieldError": fieldError,
	}
}

// defaultUploadMB — предел тела запроса с файлом, если он не задан в конфигурации.
const defaultUploadMB = 32

func uploadLimit(cfg *config.Config) int64 {
	mb := cfg.MaxUploadMB
	if mb <= 0 {
		mb = defaultUploadMB
	}
	return int64(mb) << 20
}

func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/", "/metrics"})),
	)

	funcs := funcMap()
	r.SetFuncMap(funcs)
	tpl, err := web.Templates(funcs)
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tpl)

	r.StaticFS("/static", web.Static())
	r.StaticFS("/media", deps.Media)

	// HEALTHCHECK / METRICS
	r.GET("/health", deps.Handlers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	app := r.Group("/")
	app.Use(sessions.Sessions(sessionName, store), middleware.InjectUser(deps.Identity))

	h := deps.Handlers
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute)
	upload := middleware.BodyLimit(uploadLimit(cfg))

	// ГЛАВНАЯ
	app.GET("/", h.IndexPage)

	// AUTH
	app.GET("/register", h.ShowRegister)
	app.POST("/register", limiter.Handler(), h.Register)
	app.GET("/login", h.ShowLogin)
	app.POST("/login", limiter.Handler(), h.Login)

	authed := app.Group("/")
	authed.Use(middleware.RequireAuth())

	authed.POST("/logout", h.Logout)

	// ПРОФИЛЬ
	authed.GET("/profile", h.ShowProfile)
	authed.GET("/profile/edit", h.ShowEditProfile)
	authed.POST("/profile/edit", h.UpdateProfile)
	authed.GET("/profile/edit/password", h.ShowChangePassword)
	authed.POST("/profile/edit/password", h.ChangePassword)
	authed.GET("/profile/delete", h.ShowDeleteProfile)
	authed.POST("/profile/delete", h.DeleteProfile)

	// ЗАЯВКИ
	authed.GET("/application/create", middleware.RequireRole(auth.IsPlainUser), h.ShowCreateApplication)
	authed.POST("/application/create", middleware.RequireRole(auth.IsPlainUser), upload, h.CreateApplication)
	authed.GET("/application/:id", h.ShowApplication)
	authed.POST("/application/:id/delete", h.DeleteApplication)
	authed.POST("/application/:id/edit/design", middleware.RequireRole(auth.IsEmployer), upload, h.SubmitDesign)
	authed.POST("/application/:id/edit/status", middleware.RequireRole(auth.IsEmployerOrSuperuser), h.ChangeStatus)

	authed.GET("/applications/custom", middleware.RequireRole(auth.IsPlainUser), h.ListCustomApplications)
	authed.GET("/applications/all", middleware.RequireRole(auth.IsEmployerOrSuperuser), h.ListAllApplications)

	// КАТЕГОРИИ — только администратор
	authed.GET("/categories", middleware.RequireRole(auth.IsSuperuser), h.ListCategories)
	authed.POST("/category/create", middleware.RequireRole(auth.IsSuperuser), h.CreateCategory)
	authed.POST("/category/:id/delete", middleware.RequireRole(auth.IsSuperuser), h.DeleteCategory)

	// АУДИТ
	authed.GET("/audit", middleware.RequireRole(auth.IsSuperuser), h.ListAuditLogs)

	r.NoRoute(func(c *gin.Context) {
		view.Message(c, http.StatusNotFound, "Ресурс недоступен", "Страница не найдена")
	})

	return r, nil
}
