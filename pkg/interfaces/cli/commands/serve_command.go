package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/doorshop/pkg/application/services"
	"github.com/vsinha/doorshop/pkg/infrastructure/config"
	"github.com/vsinha/doorshop/pkg/infrastructure/events"
	"github.com/vsinha/doorshop/pkg/infrastructure/metrics"
	"github.com/vsinha/doorshop/pkg/interfaces/httpapi"
)

// ServeCommand runs the HTTP API until its context is cancelled
type ServeCommand struct {
	config *config.Config
	logger *zap.Logger

	// ready receives the bound listen address once the server accepts connections
	ready chan<- string
}

// NewServeCommand creates a new serve command
func NewServeCommand(cfg *config.Config, logger *zap.Logger) *ServeCommand {
	return &ServeCommand{config: cfg, logger: logger}
}

// Execute opens the store, serves HTTP and shuts down gracefully on cancellation
func (c *ServeCommand) Execute(ctx context.Context) error {
	store, err := OpenStore(ctx, c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	eventStore := events.NewInMemoryEventStore(c.logger, events.WithRetention(events.DefaultRetention))
	if err := eventStore.Subscribe(events.AllDoorEventTypes, events.NewLoggingHandler(c.logger)); err != nil {
		return fmt.Errorf("failed to subscribe event logger: %w", err)
	}
	defer eventStore.Drain()

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Entries:     services.NewEntryService(store, eventStore, m, c.logger),
		CutLists:    services.NewCutListService(store, m, c.logger),
		Health:      store,
		Metrics:     m,
		Gatherer:    registry,
		Logger:      c.logger,
		CORSOrigins: c.config.Server.CORSOrigins,
	})

	listener, err := net.Listen("tcp", c.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.config.Server.Addr(), err)
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("Server listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("store", c.config.Store.Driver))
		if c.ready != nil {
			c.ready <- listener.Addr().String()
		}
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.config.Server.ShutdownTimeout)
		defer cancel()

		c.logger.Info("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
