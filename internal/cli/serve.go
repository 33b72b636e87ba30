package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/recall/internal/config"
	"github.com/harun/recall/internal/logger"
	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/pkg/repair"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine as a long-lived process",
	Long: `Keep the engine resident: serves Prometheus metrics, runs the
scheduled repair job when repair.enabled is set, and picks up logging
changes when the config file is edited. Stops on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9090", "listen address for /metrics and /healthz")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := newDaemon(a, config.NewLoader(cfgFile), metricsAddr)
	if err != nil {
		return err
	}
	if err := d.start(); err != nil {
		return err
	}
	defer d.stop()

	cmd.Printf("Serving metrics on http://%s/metrics\n", d.addr())
	if a.cfg.Repair.Enabled {
		cmd.Printf("Repair scheduled: %s\n", a.cfg.Repair.Schedule)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down")
	case <-cmd.Context().Done():
	}
	return nil
}

// daemon bundles the long-running collaborators of serve: the metrics
// endpoint, the scheduled repair job and the config watcher.
type daemon struct {
	app       *app
	reindexer *repair.Reindexer
	watcher   *config.Watcher
	listener  net.Listener
	server    *http.Server
}

func newDaemon(a *app, loader *config.Loader, addr string) (*daemon, error) {
	reindexer, err := repair.NewReindexer(repair.Config{
		Store:     a.store,
		Index:     a.index,
		Embedder:  buildEmbedder(a.cfg),
		Logger:    a.logger.GetZerolog(),
		BatchSize: a.cfg.Repair.BatchSize,
	})
	if err != nil {
		return nil, err
	}

	watcher, err := config.NewWatcher(loader, applyConfigChange)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return &daemon{
		app:       a,
		reindexer: reindexer,
		watcher:   watcher,
		listener:  listener,
		server:    &http.Server{Handler: mux},
	}, nil
}

func (d *daemon) start() error {
	if d.app.cfg.Repair.Enabled {
		if err := d.reindexer.Schedule(d.app.cfg.Repair.Schedule); err != nil {
			d.watcher.Stop()
			d.listener.Close()
			return err
		}
	}

	if err := d.watcher.Start(); err != nil {
		d.reindexer.Stop()
		d.listener.Close()
		return err
	}

	go func() {
		if err := d.server.Serve(d.listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()

	return nil
}

func (d *daemon) stop() {
	d.watcher.Stop()
	d.reindexer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown failed")
	}
}

func (d *daemon) addr() string {
	return d.listener.Addr().String()
}

// applyConfigChange applies the subset of a reloaded configuration that
// is safe to change at runtime. Store paths and providers need a restart.
func applyConfigChange(cfg *config.Config) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		log.Warn().Err(err).Msg("Reloaded log level invalid, keeping previous")
		return
	}
	log.Info().Str("level", cfg.Logging.Level).Msg("Log level updated")
}
