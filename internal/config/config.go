// Package config loads the service configuration: defaults, then an optional YAML file, then
// environment variables, then validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Store     StoreConfig     `yaml:"store"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port         int  `yaml:"port" validate:"min=1,max=65535"`
	MaxInputSize int  `yaml:"max_input_size" validate:"min=1"`
	Metrics      bool `yaml:"metrics"`
}

type SessionConfig struct {
	InactivityTimeout   time.Duration `yaml:"inactivity_timeout" validate:"gt=0"`
	ResumabilityTimeout time.Duration `yaml:"resumability_timeout" validate:"gt=0"`
	SweepInterval       time.Duration `yaml:"sweep_interval" validate:"gt=0"`
}

type StoreConfig struct {
	// Driver selects the record store: memory, file, redis or none.
	Driver   string        `yaml:"driver" validate:"oneof=memory file redis none"`
	Path     string        `yaml:"path" validate:"required_if=Driver file"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Driver redis"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	// Lock enables the Redis distributed lock; only meaningful with the redis driver.
	Lock bool `yaml:"lock"`
}

type WhatsAppConfig struct {
	Token       string  `yaml:"token"`
	PhoneID     string  `yaml:"phone_id" validate:"required_with=Token"`
	VerifyToken string  `yaml:"verify_token"`
	APIVersion  string  `yaml:"api_version"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	RateLimit   float64 `yaml:"rate_limit" validate:"gt=0"`
}

type TransportConfig struct {
	MaxMessageLength int           `yaml:"max_message_length" validate:"min=1"`
	ChunkDelay       time.Duration `yaml:"chunk_delay" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			MaxInputSize: 4096,
			Metrics:      true,
		},
		Session: SessionConfig{
			InactivityTimeout:   time.Hour,
			ResumabilityTimeout: 24 * time.Hour,
			SweepInterval:       5 * time.Minute,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   ".intake/records",
		},
		WhatsApp: WhatsAppConfig{
			APIVersion: "v18.0",
			RateLimit:  20,
		},
		Transport: TransportConfig{
			MaxMessageLength: 4000,
			ChunkDelay:       500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads path (optional) and the process environment.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an injectable environment.
func LoadWith(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var validate = validator.New()

// Validate checks the struct constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	// Legacy variables carry milliseconds.
	millis := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = time.Duration(n) * time.Millisecond
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num("PORT", &cfg.Server.Port)
	num("INTAKE_MAX_INPUT_SIZE", &cfg.Server.MaxInputSize)

	millis("MAX_INACTIVITY", &cfg.Session.InactivityTimeout)
	millis("SESSION_TIMEOUT", &cfg.Session.ResumabilityTimeout)
	dur("INTAKE_SWEEP_INTERVAL", &cfg.Session.SweepInterval)

	str("REDIS_URL", &cfg.Store.RedisURL)
	if _, ok := lookup("INTAKE_STORE_DRIVER"); !ok && cfg.Store.RedisURL != "" && cfg.Store.Driver == "memory" {
		cfg.Store.Driver = "redis"
	}
	str("INTAKE_STORE_DRIVER", &cfg.Store.Driver)
	str("INTAKE_STORE_PATH", &cfg.Store.Path)
	dur("INTAKE_STORE_TTL", &cfg.Store.TTL)

	str("WHATSAPP_TOKEN", &cfg.WhatsApp.Token)
	str("WHATSAPP_PHONE_ID", &cfg.WhatsApp.PhoneID)
	str("WHATSAPP_WEBHOOK_VERIFY_TOKEN", &cfg.WhatsApp.VerifyToken)
	str("WHATSAPP_API_VERSION", &cfg.WhatsApp.APIVersion)

	num("INTAKE_MAX_MESSAGE_LENGTH", &cfg.Transport.MaxMessageLength)
	dur("INTAKE_CHUNK_DELAY", &cfg.Transport.ChunkDelay)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	return errors.Join(errs...)
}
