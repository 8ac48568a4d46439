package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	intakehttp "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/intake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WhatsApp webhook server",
	Long: `Starts the intake HTTP server. Meta delivers inbound messages to /webhook, replies go out
through the WhatsApp Cloud API, and /health, /api/sessions and /metrics expose the running state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		logger := newLogger(cfg.Log)

		var reg *prometheus.Registry
		if cfg.Server.Metrics {
			reg = prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := newCore(ctx, cfg, logger, registerer(reg))
		if err != nil {
			return fmt.Errorf("error initializing intake: %w", err)
		}
		defer func() {
			if err := c.close(); err != nil {
				logger.Warn("Failed to close record store", "err", err)
			}
		}()
		go c.sessions.Run(ctx, cfg.Session.SweepInterval)

		svc := c.newService(cfg, logger, newSender(cfg, logger))
		dispatcherOpts := []intake.DispatcherOption{intake.WithDispatcherLogger(logger)}
		if c.metrics != nil {
			dispatcherOpts = append(dispatcherOpts, intake.WithDispatcherMetrics(c.metrics))
		}
		dispatcher := intake.NewDispatcher(svc, dispatcherOpts...)

		handlerOpts := []intakehttp.Option{
			intakehttp.WithVerifyToken(cfg.WhatsApp.VerifyToken),
			intakehttp.WithVersion(Version),
			intakehttp.WithLogger(logger),
		}
		if reg != nil {
			handlerOpts = append(handlerOpts, intakehttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}

		srv := &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.Server.Port),
			Handler:           intakehttp.NewHandler(dispatcher, c.sessions, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting intake server",
				"addr", srv.Addr,
				"store", cfg.Store.Driver,
				"metrics", cfg.Server.Metrics,
			)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests and queued turns a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			if err := dispatcher.Close(shutdownCtx); err != nil {
				logger.Warn("Queued turns were abandoned", "err", err)
			}
			logger.Info("Intake server stopped gracefully")
		}
		return nil
	},
}

// registerer avoids handing a typed nil *prometheus.Registry to code that checks for a nil interface.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
