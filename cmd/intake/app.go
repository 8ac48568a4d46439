package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/adapters/whatsapp"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/intake"
	"github.com/aretw0/intake/pkg/persistence"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
	"github.com/aretw0/intake/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// loadConfig reads the dotenv file, the config file and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newLogger writes to Stderr, keeping Stdout free for command output.
func newLogger(c config.LogConfig) *slog.Logger {
	level := logging.ParseLevel(c.Level)
	if c.Format == "json" {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.New(level)
}

// backend is the record store picked by the store driver, before any middleware.
type backend struct {
	records ports.RecordStore
	locker  ports.DistributedLocker
	close   func() error
}

func openBackend(ctx context.Context, c config.StoreConfig) (backend, error) {
	b := backend{close: func() error { return nil }}

	switch c.Driver {
	case "memory":
		b.records = memory.NewStore()
	case "file":
		b.records = file.New(c.Path)
	case "redis":
		store, err := redis.NewFromURL(c.RedisURL, redis.WithTTL(c.TTL))
		if err != nil {
			return b, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return b, fmt.Errorf("failed to reach redis: %w", err)
		}
		b.records = store
		b.close = store.Close
		if c.Lock {
			b.locker = redis.NewLocker(store.Client(), "intake:")
		}
	case "none":
	default:
		return b, fmt.Errorf("unknown store driver %q", c.Driver)
	}
	return b, nil
}

// core holds the parts shared by serve and chat.
type core struct {
	records  ports.RecordStore
	sessions *session.Store
	engine   *flow.Engine
	writer   *persistence.Writer
	metrics  *intake.Metrics
	close    func() error
}

// newCore wires the record store, the session store, the flow engine and the writer.
// Metrics are only collected when reg is not nil.
func newCore(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*core, error) {
	b, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	c := &core{close: b.close}
	if reg != nil {
		c.metrics = intake.NewMetrics(reg)
	}

	if b.records != nil {
		mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
		if reg != nil {
			mws = append(mws, middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(reg)))
		}
		c.records = middleware.Chain(b.records, mws...)
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithInactivityTimeout(cfg.Session.InactivityTimeout),
		session.WithResumabilityTimeout(cfg.Session.ResumabilityTimeout),
	}
	if c.records != nil {
		opts = append(opts, session.WithRecordStore(c.records))
	}
	if b.locker != nil {
		opts = append(opts, session.WithLocker(b.locker))
	}

	c.sessions = session.NewStore(opts...)
	c.engine = flow.NewEngine(flow.WithLogger(logger))
	c.writer = persistence.NewWriter(c.records, persistence.WithLogger(logger))
	return c, nil
}

// newService builds a Service on top of c. A nil sender leaves delivery to the caller.
func (c *core) newService(cfg config.Config, logger *slog.Logger, sender ports.Sender) *intake.Service {
	opts := []intake.Option{
		intake.WithWriter(c.writer),
		intake.WithLogger(logger),
		intake.WithMaxInputSize(cfg.Server.MaxInputSize),
	}
	if sender != nil {
		opts = append(opts, intake.WithSender(sender))
	}
	if c.metrics != nil {
		opts = append(opts, intake.WithMetrics(c.metrics))
	}
	return intake.NewService(c.engine, c.sessions, opts...)
}

// newSender delivers through the WhatsApp Cloud API, or only logs replies when no credentials are set.
func newSender(cfg config.Config, logger *slog.Logger) ports.Sender {
	opts := []whatsapp.Option{
		whatsapp.WithLogger(logger),
		whatsapp.WithRateLimit(cfg.WhatsApp.RateLimit, max(1, int(cfg.WhatsApp.RateLimit))),
	}
	if cfg.WhatsApp.BaseURL != "" {
		opts = append(opts, whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL))
	}
	if cfg.WhatsApp.APIVersion != "" {
		opts = append(opts, whatsapp.WithAPIVersion(cfg.WhatsApp.APIVersion))
	}

	var next ports.Sender = logSender{logger: logger}
	client := whatsapp.NewClient(cfg.WhatsApp.Token, cfg.WhatsApp.PhoneID, opts...)
	if client.Configured() {
		next = client
	} else {
		logger.Warn("WhatsApp credentials not set, replies will only be logged")
	}

	return transport.NewChunkedSender(next,
		transport.WithMaxLength(cfg.Transport.MaxMessageLength),
		transport.WithDelay(cfg.Transport.ChunkDelay),
		transport.WithLogger(logger),
	)
}

type logSender struct {
	logger *slog.Logger
}

func (s logSender) Send(ctx context.Context, to, text string) error {
	s.logger.InfoContext(ctx, "Reply not delivered",
		"address", logging.MaskAddress(to),
		"length", len(text),
	)
	return nil
}

var errNoRecordStore = errors.New("no record store configured, set store.driver to file or redis")
