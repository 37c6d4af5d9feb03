package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/metrics"
	"github.com/mamadbah2/inventory-portal/internal/server/handlers"
	"github.com/mamadbah2/inventory-portal/internal/service/session"
)

const requestIDHeader = "X-Request-ID"

// New wires the Gin engine with required routes and middlewares. m may be
// nil to disable metrics.
func New(handler *handlers.PortalHandler, sessions *session.Manager, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(m))
	r.Use(handlers.Authenticate(sessions))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	api.POST("/session/login", handler.Login)

	authed := api.Group("", handlers.Guard(requireSession))
	authed.POST("/session/logout", handler.Logout)
	authed.GET("/session", handler.Session)

	admin := api.Group("/admin", handlers.Guard(session.RequireAdmin))
	admin.GET("/dashboard", handler.Dashboard)
	admin.GET("/views/:page", handler.View)
	admin.GET("/views/:page/export.xlsx", handler.Export)
	admin.GET("/options", handler.Options)
	admin.GET("/lookup/users/:id", handler.LookupUser)
	admin.POST("/forms/:form", handler.Submit)
	admin.DELETE("/records/:resource/:id", handler.Delete)

	user := api.Group("/user", handlers.Guard(session.RequireUser))
	user.GET("/dashboard", handler.UserDashboard)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requireSession(s *models.Session) error {
	if s == nil || s.Token == "" {
		return session.ErrUnauthenticated
	}
	return nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Request(c.Request.Method, route, c.Writer.Status())
	}
}
