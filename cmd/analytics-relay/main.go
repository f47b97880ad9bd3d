// Command analytics-relay accepts analytics messages over HTTP and forwards them to the
// Measurement Protocol collection endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics"
	"github.com/advanced-rest-client/app-analytics/analytics/client"
	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/joho/godotenv"
	"github.com/splitio/go-toolkit/v5/logging"
)

func main() {
	configPath := flag.String("c", "", "path to a YAML configuration file")
	addr := flag.String("addr", ":8080", "address to listen on")
	trace := flag.Bool("trace", false, "export traces to stdout")
	flag.Parse()

	if err := run(*configPath, *addr, *trace); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, addr string, trace bool) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := conf.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(&cfg.LoggerConfig)
	cfg.Logger = logger

	if trace {
		shutdown, err := initTracer("analytics-relay", logger)
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", err.Error())
			}
		}()
	}

	tracker, err := client.NewTracker(cfg)
	if err != nil {
		return err
	}
	defer tracker.Destroy()

	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(tracker, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Relay", analytics.UserAgent(), "listening on", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigChan:
	}

	logger.Info("Shutdown signal received, stopping relay")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
