package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redconnect/redconnect-api/internal/handler"
	authhandler "github.com/redconnect/redconnect-api/internal/handler/auth"
	"github.com/redconnect/redconnect-api/internal/middleware"
	"github.com/redconnect/redconnect-api/internal/model"
)

// Handler is anything that mounts its routes on a group
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   *authhandler.Handler
	notifH  Handler
	adminH  Handler
	hospH   Handler
	campH   Handler
	donorH  Handler
	patH    Handler
	healthH *handler.HealthHandler
	metrics *routerMetrics
	config  Config
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
	MetricsPrefix  string
	MetricsEnabled bool
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	notifH Handler,
	adminH Handler,
	hospH Handler,
	campH Handler,
	donorH Handler,
	patH Handler,
	healthH *handler.HealthHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	middleware.RegisterValidators()

	r := &Router{
		engine:  engine,
		auth:    auth,
		authH:   authH,
		notifH:  notifH,
		adminH:  adminH,
		hospH:   hospH,
		campH:   campH,
		donorH:  donorH,
		patH:    patH,
		healthH: healthH,
		metrics: initRouterMetrics(config.MetricsPrefix),
		config:  config,
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: config.AllowedOrigins,
	}))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Auth routes carry their own middleware for the protected subset
	r.authH.RegisterRoutes(api, r.auth)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.notifH.RegisterRoutes(protected)

	r.adminH.RegisterRoutes(r.roleGroup(protected, model.RoleAdmin))
	r.hospH.RegisterRoutes(r.roleGroup(protected, model.RoleHospital))
	r.campH.RegisterRoutes(r.roleGroup(protected, model.RoleCamp))
	r.donorH.RegisterRoutes(r.roleGroup(protected, model.RoleDonor))
	r.patH.RegisterRoutes(r.roleGroup(protected, model.RolePatient))
}

func (r *Router) roleGroup(rg *gin.RouterGroup, role model.Role) *gin.RouterGroup {
	grp := rg.Group("")
	grp.Use(r.auth.RequireRole(role))
	return grp
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.healthH.Liveness)
		health.GET("/ready", r.healthH.Readiness)
		if r.config.MetricsEnabled {
			health.GET("/metrics", gin.WrapH(promhttp.Handler()))
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
