package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/validator"
	"github.com/joho/godotenv"
)

const (
	DedupStoreRedis  = "redis"
	DedupStoreMemory = "memory"
)

const (
	DownloadAuthNone    = "none"
	DownloadAuthToken   = "token"
	DownloadAuthCasdoor = "casdoor"
)

type Config struct {
	Port            string
	Environment     string
	ResultsFile     string `validate:"required"`
	StaticDir       string
	LogFile         string
	ShutdownTimeout time.Duration `validate:"min=0"`

	SubmitRateLimit int `validate:"min=0"`

	Download DownloadConfig
	Dedup    DedupConfig
	Events   EventConfig
}

// DownloadConfig controls access to GET /download-results.
type DownloadConfig struct {
	Auth    string `validate:"oneof=none token casdoor"`
	Token   string `validate:"required_if=Auth token"`
	Casdoor CasdoorConfig
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

// DedupConfig enables suppression of replayed submissions. The memory
// store only sees replays reaching this process.
type DedupConfig struct {
	Enabled  bool
	Store    string `validate:"oneof=redis memory"`
	RedisURL string
	Window   time.Duration `validate:"min=0"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// LoadConfig reads the environment, after loading an optional .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, validating it.
func FromEnv(lookup func(string) string) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		Port:            env.get("PORT", "3000"),
		Environment:     env.get("ENVIRONMENT", "development"),
		ResultsFile:     env.get("RESULTS_FILE", "results.csv"),
		StaticDir:       env.get("STATIC_DIR", "public"),
		LogFile:         env.get("LOG_FILE", ""),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		SubmitRateLimit: env.int("SUBMIT_RATE_LIMIT", 0),
		Download: DownloadConfig{
			Auth:  strings.ToLower(env.get("DOWNLOAD_AUTH", DownloadAuthNone)),
			Token: env.get("DOWNLOAD_TOKEN", ""),
			Casdoor: CasdoorConfig{
				Endpoint:     env.get("CASDOOR_ENDPOINT", ""),
				ClientID:     env.get("CASDOOR_CLIENT_ID", ""),
				ClientSecret: env.get("CASDOOR_CLIENT_SECRET", ""),
				Certificate:  env.get("CASDOOR_CERTIFICATE", ""),
				Organization: env.get("CASDOOR_ORGANIZATION", ""),
				Application:  env.get("CASDOOR_APPLICATION", ""),
			},
		},
		Dedup: DedupConfig{
			Enabled:  env.bool("DEDUP_ENABLED", false),
			Store:    strings.ToLower(env.get("DEDUP_STORE", DedupStoreRedis)),
			RedisURL: env.get("REDIS_URL", "redis://localhost:6379"),
			Window:   env.duration("DEDUP_WINDOW", 10*time.Minute),
		},
		Events: EventConfig{
			Enabled:       env.bool("EVENTS_ENABLED", false),
			Publisher:     env.get("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers:  env.get("KAFKA_BROKERS", "localhost:9092"),
			Topic:         env.get("SUBMISSION_TOPIC", "placement.submissions"),
			ConsumerGroup: env.get("EVENTS_CONSUMER_GROUP", "placement-events-feed"),
		},
	}

	if len(env.errs) > 0 {
		return nil, errors.Join(env.errs...)
	}
	if err := validator.New().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type envReader struct {
	lookup func(string) string
	errs   []error
}

func (r *envReader) get(key, defaultValue string) string {
	value := strings.TrimSpace(r.lookup(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (r *envReader) bool(key string, defaultValue bool) bool {
	value := r.get(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}

func (r *envReader) int(key string, defaultValue int) int {
	value := r.get(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value := r.get(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return parsed
}
