// Package httpapi exposes cut lists and entry updates over HTTP
package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/application/services"
	"github.com/vsinha/doorshop/pkg/infrastructure/metrics"
)

// Pinger reports backend health
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the router's dependencies
type RouterConfig struct {
	Entries  *services.EntryService
	CutLists *services.CutListService
	Health   Pinger
	Metrics  *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// CORSOrigins lists allowed origins; empty allows all
	CORSOrigins []string
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(cfg.Logger))
	r.Use(RecordMetrics(cfg.Metrics))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	h := &Handler{
		entries:  cfg.Entries,
		cutLists: cfg.CutLists,
		health:   cfg.Health,
		logger:   cfg.Logger,
	}

	r.GET("/healthz", h.Healthz)
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/doors/:id/cut-list", h.GetDoorCutList)
		api.DELETE("/doors/:id", h.DeleteDoor)

		api.PUT("/entries/:id", h.UpdateEntry)
		api.GET("/entries/:id/doors", h.ListDoors)
		api.DELETE("/entries/:id", h.DeleteEntry)

		api.POST("/work-orders/:id/entries", h.CreateEntry)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
