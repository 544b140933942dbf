// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the catalog source, the shopping assistant
// backend, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-keynexus")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ScoutConfig selects and tunes the shopping assistant's text provider.
type ScoutConfig struct {
	Provider string        // SCOUT_PROVIDER: auto|gemini|local
	APIKey   string        // GEMINI_API_KEY, falling back to API_KEY
	Model    string        // GEMINI_MODEL
	Language string        // SCOUT_LANGUAGE, the language replies are requested in
	Timeout  time.Duration // SCOUT_TIMEOUT, upper bound on one provider call
}

// UseGemini reports whether the Gemini backend should be built.
func (s ScoutConfig) UseGemini() bool {
	switch s.Provider {
	case "gemini":
		return true
	case "auto":
		return s.APIKey != ""
	default:
		return false
	}
}

// SessionConfig bounds the in-memory shopper sessions.
type SessionConfig struct {
	TTL           time.Duration // SESSION_TTL, idle time before a session is dropped
	SweepInterval time.Duration // SESSION_SWEEP_INTERVAL
	MaxSessions   int           // SESSION_MAX, 0 for unlimited
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogRedact      bool   // scrubbed access logs; false logs session ids and raw queries
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath            string // SQLite DSN or path
	CatalogPath       string // JSON or YAML catalog file; empty uses the built-in seed
	MaxUtteranceRunes int    // longest accepted assistant message
	Session           SessionConfig
	Scout             ScoutConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if it is invalid.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults and
// normalization, then validates the result. Malformed values are reported
// alongside validation failures in a single joined error.
func Load() (Config, error) {
	var env envReader

	cfg := Config{
		// Server
		Port:              env.str("PORT", "8080"),
		ReadTimeout:       env.duration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: env.duration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      env.duration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       env.duration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    env.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(env.str("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(env.str("LOG_LEVEL", "info")),
		LogPretty:      env.flag("LOG_PRETTY", false),
		LogRedact:      env.flag("LOG_REDACT", true),
		SwaggerEnabled: env.flag("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(env.str("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:            env.str("DB_PATH", "file:keynexus?mode=memory&cache=shared"),
		CatalogPath:       strings.TrimSpace(env.str("CATALOG_PATH", "")),
		MaxUtteranceRunes: env.integer("MAX_UTTERANCE_RUNES", 1000),
		Session: SessionConfig{
			TTL:           env.duration("SESSION_TTL", 2*time.Hour),
			SweepInterval: env.duration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
			MaxSessions:   env.integer("SESSION_MAX", 10000),
		},
		Scout: ScoutConfig{
			Provider: strings.ToLower(env.str("SCOUT_PROVIDER", "auto")),
			APIKey:   env.str("GEMINI_API_KEY", env.str("API_KEY", "")),
			Model:    env.str("GEMINI_MODEL", "gemini-3-flash-preview"),
			Language: env.str("SCOUT_LANGUAGE", "English"),
			Timeout:  env.duration("SCOUT_TIMEOUT", 30*time.Second),
		},

		RateRPS:   env.number("RATE_RPS", 5.0),
		RateBurst: env.integer("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(env.str("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: env.flag("ENABLE_HSTS", false),
			HSTSMaxAge: env.duration("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: env.duration("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     env.flag("OTEL_ENABLED", false),
			Endpoint:    env.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    env.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: env.str("OTEL_SERVICE_NAME", "go-keynexus"),
			SampleRatio: env.number("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of: debug, info, warn, error, fatal, panic", c.LogLevel))
	}
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	check(strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty")
	check(c.MaxUtteranceRunes > 0, "MAX_UTTERANCE_RUNES must be > 0")
	check(c.Session.TTL > 0 && c.Session.SweepInterval > 0,
		"SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive durations")
	check(c.Session.MaxSessions >= 0, "SESSION_MAX must be >= 0")

	switch c.Scout.Provider {
	case "auto", "local":
	case "gemini":
		check(c.Scout.APIKey != "", "SCOUT_PROVIDER=gemini requires GEMINI_API_KEY")
	default:
		errs = append(errs, fmt.Errorf("SCOUT_PROVIDER %q must be one of: auto, gemini, local", c.Scout.Provider))
	}
	check(c.Scout.Timeout > 0, "SCOUT_TIMEOUT must be > 0")

	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

// envReader reads typed environment values. Unset or empty variables take
// the default; values that fail to parse are remembered and also take the
// default so loading can continue and report everything together.
type envReader struct {
	errs []error
}

func (e *envReader) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) bad(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", k, v, kind))
}

func (e *envReader) err() error { return errors.Join(e.errs...) }

func (e *envReader) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *envReader) integer(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.bad(k, v, "integer")
		return def
	}
	return i
}

func (e *envReader) number(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.bad(k, v, "number")
		return def
	}
	return f
}

func (e *envReader) flag(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.bad(k, v, "boolean")
	return def
}

func (e *envReader) duration(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		e.bad(k, v, "duration")
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing ones, except
// for the root itself.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
