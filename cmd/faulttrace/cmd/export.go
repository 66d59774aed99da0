package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/faulttrace/internal/export"
	"github.com/tamzrod/faulttrace/internal/probe"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Poll all configured devices and serve metrics",
	Long: `Run a probe loop for every configured device and publish the results:
Prometheus metrics on /metrics and a JSON API under /api/v1. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.Recovery.Poll.IntervalMs) * time.Millisecond
	out := make(chan probe.Result)

	// One probe goroutine per device. Startup connect failures are
	// fatal; per-cycle errors flow through as results.
	for _, d := range cfg.Recovery.Devices {
		p, closeClient, err := probe.Build(d, interval)
		if err != nil {
			return err
		}
		defer closeClient()

		log.Printf("probing device=%s endpoint=%s every %s", d.ID, d.Endpoint, interval)
		go p.Run(ctx, out)
	}

	exporter := export.New()
	go exporter.Consume(ctx, out)

	srv := &http.Server{
		Addr:    cfg.Recovery.Listen,
		Handler: exporter.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving on %s", cfg.Recovery.Listen)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
