package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Broker names accepted by EVENTS_BROKER.
const (
	BrokerMemory = "memory"
	BrokerRedis  = "redis"
	BrokerAMQP   = "amqp"
)

// Config holds application level configuration loaded from flags, environment
// and an optional config file.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	AuthSecret      string
	AdminEmails     []string
	ShutdownTimeout time.Duration
	EventsBroker    string
	RedisAddr       string
	AMQPURL         string
	StreamKeepAlive time.Duration
	RelayWorkers    int
	LogLevel        slog.Level
}

const (
	defaultRunAddress      = ":8080"
	defaultAuthSecret      = "change-me-in-production"
	defaultShutdownTimeout = 10 * time.Second
	defaultEventsBroker    = BrokerMemory
	defaultStreamKeepAlive = 15 * time.Second
	defaultRelayWorkers    = 2
	defaultLogLevel        = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		fromFile, err := fileLookup(path)
		if err != nil {
			return nil, err
		}
		lookup = chainLookup(lookup, fromFile)
	}

	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		AuthSecret:      getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		EventsBroker:    getString(lookup, "EVENTS_BROKER", defaultEventsBroker),
		RedisAddr:       getString(lookup, "REDIS_ADDR", ""),
		AMQPURL:         getString(lookup, "AMQP_URL", ""),
		StreamKeepAlive: getDuration(lookup, "STREAM_KEEPALIVE", defaultStreamKeepAlive),
		RelayWorkers:    getInt(lookup, "RELAY_WORKERS", defaultRelayWorkers),
	}

	fs := flag.NewFlagSet("pocha", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		keepAliveStr       = cfg.StreamKeepAlive.String()
		adminEmails        = getString(lookup, "ADMIN_EMAILS", "")
		logLevel           = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret shared with the identity provider bridge")
	fs.StringVar(&adminEmails, "admin-emails", adminEmails, "Comma separated verified emails granted the admin role")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.EventsBroker, "events-broker", cfg.EventsBroker, "Order event fan-out: memory, redis or amqp")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis broker")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "RabbitMQ URL for the amqp broker")
	fs.StringVar(&keepAliveStr, "stream-keepalive", keepAliveStr, "Order stream keep-alive interval")
	fs.IntVar(&cfg.RelayWorkers, "relay-workers", cfg.RelayWorkers, "Number of order event relay workers")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StreamKeepAlive, err = time.ParseDuration(keepAliveStr); err != nil {
		return nil, fmt.Errorf("invalid stream keep-alive: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	cfg.AdminEmails = splitEmails(adminEmails)
	cfg.EventsBroker = strings.ToLower(strings.TrimSpace(cfg.EventsBroker))

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.StreamKeepAlive <= 0 {
		cfg.StreamKeepAlive = defaultStreamKeepAlive
	}

	if cfg.RelayWorkers <= 0 {
		cfg.RelayWorkers = defaultRelayWorkers
	}

	if cfg.EventsBroker == "" {
		cfg.EventsBroker = defaultEventsBroker
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	switch cfg.EventsBroker {
	case BrokerMemory:
	case BrokerRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address must be provided for the redis broker")
		}
	case BrokerAMQP:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("amqp url must be provided for the amqp broker")
		}
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.EventsBroker)
	}

	return cfg, nil
}

// IsAdminEmail reports whether email is listed in AdminEmails.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func splitEmails(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if email := strings.ToLower(strings.TrimSpace(part)); email != "" {
			out = append(out, email)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
