package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/config"
	"github.com/hieptuanle/baby-tracker/internal/handler"
	"github.com/hieptuanle/baby-tracker/internal/middleware"
	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/store"
	"github.com/hieptuanle/baby-tracker/internal/util"
	"github.com/hieptuanle/baby-tracker/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// SetupRouter wires services, middleware, templates and routes. now is the
// clock used for sessions and gestational age; nil means time.Now.
func SetupRouter(cfg *config.Config, st store.Store, log zerolog.Logger, now func() time.Time) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := util.RegisterValidators(); err != nil {
		return nil, err
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	sessions := service.NewSessionManager(st.Sessions(), cfg.Session.TTL(), now)
	auth := service.NewAuthService(st.Users(), sessions, cfg.Security.BcryptCost, log)
	pregnancies := service.NewPregnancyService(st.Pregnancies(), now)
	cookie := util.CookieConfig{Name: cfg.Session.CookieName, MaxAge: cfg.Session.TTL()}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Authenticate(auth, cookie.Name, log),
	)

	r.GET("/health", handler.Health(st, log))
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// pages
	pages := handler.NewPageHandler(pregnancies, log)
	r.GET("/", pages.Anonymous("index.html", "Welcome"))
	r.GET("/login", pages.Anonymous("login.html", "Login"))
	r.GET("/register", pages.Anonymous("register.html", "Register"))
	r.GET("/dashboard", middleware.RequireAuthRedirect("/login"), pages.Dashboard)

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(auth, cookie, log)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())

	protected.GET("/auth/me", authHandler.Me)

	pregnancyHandler := handler.NewPregnancyHandler(pregnancies, log)
	protected.GET("/pregnancy", pregnancyHandler.Get)
	protected.POST("/pregnancy", pregnancyHandler.Upsert)
	protected.PUT("/pregnancy", pregnancyHandler.Update)
	protected.DELETE("/pregnancy", pregnancyHandler.Delete)
	protected.GET("/pregnancy/export", pregnancyHandler.Export)

	r.NoRoute(func(c *gin.Context) {
		log.Warn().Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("route not found")
		util.Error(c, http.StatusNotFound, "Not found")
	})

	return r, nil
}
