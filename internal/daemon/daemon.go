package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spiral-app/spiral/internal/api"
	"github.com/spiral-app/spiral/internal/app/achieve"
	"github.com/spiral-app/spiral/internal/app/monitor"
	_ "github.com/spiral-app/spiral/internal/infra/metrics" // Register Prometheus metrics
	"github.com/spiral-app/spiral/internal/infra/sqlite"
)

// Daemon is the core Spiral runtime. It wires together all services.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Monitor      *monitor.Monitor
	Achievements *achieve.Service
	Server       *api.Server
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon from the on-disk config.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	db, err := sqlite.Open(spiralHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mon := monitor.New(db, engineCfg)
	ach := achieve.NewService(db)

	srv := api.NewServer(mon, ach, db, version)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	// Remember the active mode and style so the CLI can show them
	// without parsing the config file.
	if err := db.SetSetting("intervention_mode", string(engineCfg.Mode)); err != nil {
		log.Printf("[daemon] persist mode setting: %v", err)
	}
	if err := db.SetSetting("roast_style", string(engineCfg.Style)); err != nil {
		log.Printf("[daemon] persist style setting: %v", err)
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Monitor:      mon,
		Achievements: ach,
		Server:       srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background detection loop
	go d.Monitor.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Spiral serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
