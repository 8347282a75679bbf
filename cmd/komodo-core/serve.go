package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/config"
	"github.com/cuemby/komodo-core/pkg/events"
	"github.com/cuemby/komodo-core/pkg/execute"
	"github.com/cuemby/komodo-core/pkg/journal"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/log"
	"github.com/cuemby/komodo-core/pkg/metrics"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/procrun"
	"github.com/cuemby/komodo-core/pkg/stackctl"
	"github.com/cuemby/komodo-core/pkg/statuscache"
	"github.com/cuemby/komodo-core/pkg/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Komodo Core control plane",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9120", "address the /metrics, /health, /ready, /live endpoints bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cmd, cfg)

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	j := journal.New(db, broker)
	swept, err := j.SweepOrphaned()
	if err != nil {
		return fmt.Errorf("sweep orphaned updates: %w", err)
	}
	if swept > 0 {
		log.Logger.Info().Int("count", swept).Msg("finalized updates left in-progress by a prior process")
	}

	regs := actionstate.NewRegistries()

	dial := func(server komodo.Server) *periphery.Client {
		return periphery.New(server.Config.Address, cfg.PeripherySecret)
	}

	stacks := stackctl.New(db, j, regs.Stacks, dial)
	status := statuscache.New(db, dial)
	status.Start()
	defer status.Stop()

	dispatcher := execute.New(db, j, regs, stacks, dial)
	dispatcher.SetConcurrency(cfg.DispatchConcurrency)

	runner := procrun.New(db, j, regs, dispatcher.Dispatch)
	dispatcher.SetProcedureRunner(runner)

	collector := metrics.NewCollector(db)
	collector.Start()
	defer collector.Stop()

	metrics.SetVersion(Version)
	metrics.RegisterComponent("store", true, "opened")
	metrics.RegisterComponent("journal", true, "ready")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("metrics server stopped unexpectedly")
		}
	}()
	log.Logger.Info().Str("addr", metricsAddr).Msg("metrics endpoints listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadConfig(cmd *cobra.Command) (config.CoreConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.CoreConfig{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

func initLogging(cmd *cobra.Command, cfg config.CoreConfig) {
	level, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("log-json")
	if level == "" {
		level = cfg.LogLevel
	}
	log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOut || cfg.LogJSON,
	})
}
