// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"membership/config"
	"membership/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	MemberHandler *handler.MemberHandler
	LogHandler    *handler.LogHandler
	Registry      *prometheus.Registry `optional:"true"`
	Config        *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	memberHandler *handler.MemberHandler
	logHandler    *handler.LogHandler
	registry      *prometheus.Registry
	config        *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		memberHandler: params.MemberHandler,
		logHandler:    params.LogHandler,
		registry:      params.Registry,
		config:        params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/logs", r.logHandler.ViewLogs)

	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/register", r.memberHandler.Register)
		apiGroup.POST("/login", r.memberHandler.Login)
		apiGroup.GET("/registrations", r.memberHandler.ListRegistrations)
	}
}

// RegisterMetricsRoute exposes the prometheus registry when metrics are enabled.
func (r *router) RegisterMetricsRoute(e *echo.Echo) {
	if r.registry == nil || r.config.Metrics == nil || !r.config.Metrics.Enabled {
		return
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
}
