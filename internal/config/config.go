// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the settings of the
// bot: the source export, paging and debounce tuning, the Telegram and HTTP
// transports, logging, rate limiting and observability.
package config

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// PlaceholderToken is the token value shipped in sample configs. A token
// containing it is treated as unset.
const PlaceholderToken = "YOUR_BOT_TOKEN_HERE"

// logLevels are the accepted LOG_LEVEL values after normalization.
var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// ErrBotToken is returned by ValidateTelegram when no usable token is set.
var ErrBotToken = errors.New("BOT_TOKEN is unset or still the placeholder; set a real bot token")

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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "minjust-bot")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// SourceConfig describes the materials export and how to parse it.
type SourceConfig struct {
	Path                string // SOURCE_PATH
	Encoding            string // SOURCE_ENCODING, any WHATWG label
	Delimiter           rune   // SOURCE_DELIMITER, single character
	MinDescriptionRunes int    // MIN_DESCRIPTION_RUNES
}

// BotConfig holds the conversation and Telegram settings.
type BotConfig struct {
	Token          string        // BOT_TOKEN
	PageSize       int           // PAGE_SIZE
	PreviewRunes   int           // PREVIEW_RUNES
	NavDebounce    time.Duration // NAV_DEBOUNCE
	SessionTTL     time.Duration // SESSION_TTL
	SweepInterval  time.Duration // SESSION_SWEEP_INTERVAL
	PollTimeout    int           // TELEGRAM_POLL_TIMEOUT, seconds
	TelegramDebug  bool          // TELEGRAM_DEBUG
	MaxConcurrency int           // TELEGRAM_MAX_CONCURRENCY
}

// Config holds all configuration values for the application.
type Config struct {
	// Transports
	TelegramEnabled bool // TELEGRAM_ENABLED
	HTTPEnabled     bool // HTTP_ENABLED

	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	MaxPageSize       int           // cap for page_size on the HTTP API

	// Logging / Docs
	LogLevel       string // see logLevels
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Source       SourceConfig
	Bot          BotConfig
	ReportDBPath string // ingestion report store DSN
	KeepRuns     int    // ingestion reports retained

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
//
// The bot token is not validated here, so commands that never talk to
// Telegram work without one; see ValidateTelegram.
func Load() (Config, error) {
	cfg := Config{
		// Transports
		TelegramEnabled: getbool("TELEGRAM_ENABLED", true),
		HTTPEnabled:     getbool("HTTP_ENABLED", true),

		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		MaxPageSize:       getint("MAX_PAGE_SIZE", 50),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		Source: SourceConfig{
			Path:                getenv("SOURCE_PATH", "exportfsm.csv"),
			Encoding:            strings.ToLower(getenv("SOURCE_ENCODING", "windows-1251")),
			Delimiter:           getrune("SOURCE_DELIMITER", ';'),
			MinDescriptionRunes: getint("MIN_DESCRIPTION_RUNES", 6),
		},
		Bot: BotConfig{
			Token:          strings.TrimSpace(os.Getenv("BOT_TOKEN")),
			PageSize:       getint("PAGE_SIZE", 5),
			PreviewRunes:   getint("PREVIEW_RUNES", 200),
			NavDebounce:    getdur("NAV_DEBOUNCE", 800*time.Millisecond),
			SessionTTL:     getdur("SESSION_TTL", 24*time.Hour),
			SweepInterval:  getdur("SESSION_SWEEP_INTERVAL", 10*time.Minute),
			PollTimeout:    getint("TELEGRAM_POLL_TIMEOUT", 60),
			TelegramDebug:  getbool("TELEGRAM_DEBUG", false),
			MaxConcurrency: getint("TELEGRAM_MAX_CONCURRENCY", 64),
		},
		ReportDBPath: getenv("REPORT_DB_PATH", "file:ingest?mode=memory&cache=shared"),
		KeepRuns:     getint("REPORT_KEEP_RUNS", 10),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "minjust-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
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
	return cfg, cfg.validate()
}

// validate reports every broken setting at once, joined with errors.Join.
func (c Config) validate() error {
	rules := []struct {
		broken bool
		msg    string
	}{
		{!slices.Contains(logLevels, c.LogLevel), "LOG_LEVEL must be one of: " + strings.Join(logLevels, ", ")},
		{strings.TrimSpace(c.Port) == "", "PORT must not be empty"},
		{c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0, "timeouts must be positive durations"},
		{c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0"},
		{strings.TrimSpace(c.Source.Path) == "", "SOURCE_PATH must not be empty"},
		{c.Source.Delimiter == '"', "SOURCE_DELIMITER must not be a double quote"},
		{c.Source.MinDescriptionRunes < 1, "MIN_DESCRIPTION_RUNES must be >= 1"},
		{c.Bot.PageSize < 1, "PAGE_SIZE must be >= 1"},
		{c.MaxPageSize < c.Bot.PageSize, "MAX_PAGE_SIZE must be >= PAGE_SIZE"},
		{c.Bot.PreviewRunes < 1, "PREVIEW_RUNES must be >= 1"},
		{c.Bot.NavDebounce <= 0 || c.Bot.SessionTTL <= 0 || c.Bot.SweepInterval <= 0, "NAV_DEBOUNCE, SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive durations"},
		{c.Bot.PollTimeout < 0, "TELEGRAM_POLL_TIMEOUT must be >= 0"},
		{c.Bot.MaxConcurrency < 1, "TELEGRAM_MAX_CONCURRENCY must be >= 1"},
		{strings.TrimSpace(c.ReportDBPath) == "", "REPORT_DB_PATH must not be empty"},
		{c.KeepRuns < 1, "REPORT_KEEP_RUNS must be >= 1"},
		{c.RateRPS < 0, "RATE_RPS must be >= 0"},
		{c.RateBurst < 1, "RATE_BURST must be >= 1"},
		{c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must be >= 0"},
		{c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	var errs []error
	for _, r := range rules {
		if r.broken {
			errs = append(errs, errors.New(r.msg))
		}
	}
	return errors.Join(errs...)
}

// ValidateTelegram reports ErrBotToken when Telegram is enabled without a
// real token.
func (c Config) ValidateTelegram() error {
	if !c.TelegramEnabled {
		return nil
	}
	if c.Bot.Token == "" || strings.Contains(c.Bot.Token, PlaceholderToken) {
		return ErrBotToken
	}
	return nil
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getrune reads a single-character value; anything else yields def.
func getrune(k string, def rune) rune {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if r := []rune(v); len(r) == 1 {
			return r[0]
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
