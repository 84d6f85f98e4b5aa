// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App         AppConfig         `koanf:"app"`
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Redis       RedisConfig       `koanf:"redis"`
	Session     SessionConfig     `koanf:"session"`
	Tokens      TokenConfig       `koanf:"tokens"`
	Account     AccountConfig     `koanf:"account"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	CORS        CORSConfig        `koanf:"cors"`
	Log         LogConfig         `koanf:"log"`
	Otel        OtelConfig        `koanf:"otel"`
	Mail        MailConfig        `koanf:"mail"`
	Push        PushConfig        `koanf:"push"`
	Cloudinary  CloudinaryConfig  `koanf:"cloudinary"`
	Meilisearch MeilisearchConfig `koanf:"meilisearch"`
	Jobs        JobsConfig        `koanf:"jobs"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	BaseURL     string `koanf:"base_url"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// SessionConfig controls the admin console cookie.
type SessionConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	CookieName     string        `koanf:"cookie_name"`
	Lifetime       time.Duration `koanf:"lifetime"`
	Secure         bool          `koanf:"secure"`
	Issuer         string        `koanf:"issuer"`
}

// TokenConfig controls API bearer tokens.
type TokenConfig struct {
	Lifetime    time.Duration `koanf:"lifetime"`
	StaleAfter  time.Duration `koanf:"stale_after"`
	ByteLength  int           `koanf:"byte_length"`
	MaxPerUser  int           `koanf:"max_per_user"`
}

type AccountConfig struct {
	ConfirmationTTL  time.Duration `koanf:"confirmation_ttl"`
	PasswordResetTTL time.Duration `koanf:"password_reset_ttl"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
	// AuthPerHour caps credential endpoints per caller and endpoint.
	AuthPerHour int `koanf:"auth_per_hour"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// MailConfig selects the outbound mail transport. An empty Host logs
// messages instead of sending them.
type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

type PushConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Endpoint    string        `koanf:"endpoint"`
	AccessToken string        `koanf:"access_token"`
	Timeout     time.Duration `koanf:"timeout"`
}

type CloudinaryConfig struct {
	URL    string `koanf:"url"`
	Folder string `koanf:"folder"`
}

type MeilisearchConfig struct {
	Host      string `koanf:"host"`
	MasterKey string `koanf:"master_key"`
	Index     string `koanf:"index"`
}

type JobsConfig struct {
	TokenCleanupSpec string        `koanf:"token_cleanup_spec"`
	Timeout          time.Duration `koanf:"timeout"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is read
// into the environment first when present.
func Load(configPath string) (*Config, error) {
	//nolint:errcheck // .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Mentorcamp",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.base_url":    "http://localhost:8080",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"session.private_key_path": "keys/session_private.pem",
		"session.public_key_path":  "keys/session_public.pem",
		"session.cookie_name":      "mc_session",
		"session.lifetime":         "12h",
		"session.secure":           false,
		"session.issuer":           "mentorcamp-console",

		"tokens.lifetime":     "2160h",
		"tokens.stale_after":  "720h",
		"tokens.byte_length":  32,
		"tokens.max_per_user": 10,

		"account.confirmation_ttl":   "72h",
		"account.password_reset_ttl": "1h",

		"rate_limit.requests":      100,
		"rate_limit.window":        "1m",
		"rate_limit.burst":         20,
		"rate_limit.auth_per_hour": 60,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "mentorcamp-backend",

		"mail.port": 587,
		"mail.from": "Mentorcamp <no-reply@mentorcamp.local>",

		"push.enabled":  false,
		"push.endpoint": "https://exp.host/--/api/v2/push/send",
		"push.timeout":  "10s",

		"cloudinary.folder": "mentorcamp",

		"meilisearch.index": "users",

		"jobs.token_cleanup_spec": "@every 1h",
		"jobs.timeout":            "5m",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"BASE_URL":                    "app.base_url",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"SESSION_PRIVATE_KEY_PATH":    "session.private_key_path",
	"SESSION_PUBLIC_KEY_PATH":     "session.public_key_path",
	"SESSION_LIFETIME":            "session.lifetime",
	"SESSION_COOKIE_SECURE":       "session.secure",
	"TOKEN_LIFETIME":              "tokens.lifetime",
	"TOKEN_STALE_AFTER":           "tokens.stale_after",
	"CONFIRMATION_TTL":            "account.confirmation_ttl",
	"PASSWORD_RESET_TTL":          "account.password_reset_ttl",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_AUTH_PER_HOUR":    "rate_limit.auth_per_hour",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"SMTP_HOST":                   "mail.host",
	"SMTP_PORT":                   "mail.port",
	"SMTP_USERNAME":               "mail.username",
	"SMTP_PASSWORD":               "mail.password",
	"MAIL_FROM":                   "mail.from",
	"PUSH_ENABLED":                "push.enabled",
	"PUSH_ENDPOINT":               "push.endpoint",
	"PUSH_ACCESS_TOKEN":           "push.access_token",
	"CLOUDINARY_URL":              "cloudinary.url",
	"CLOUDINARY_UPLOAD_FOLDER":    "cloudinary.folder",
	"MEILISEARCH_HOST":            "meilisearch.host",
	"MEILI_MASTER_KEY":            "meilisearch.master_key",
	"TOKEN_CLEANUP_SPEC":          "jobs.token_cleanup_spec",
	"JOB_TIMEOUT":                 "jobs.timeout",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Session.PrivateKeyPath == "" {
		return fmt.Errorf("SESSION_PRIVATE_KEY_PATH is required")
	}

	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session.lifetime must be positive")
	}

	if c.Tokens.Lifetime <= 0 {
		return fmt.Errorf("tokens.lifetime must be positive")
	}

	if c.Tokens.ByteLength < 16 {
		return fmt.Errorf("tokens.byte_length must be at least 16")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
		}
	}

	if c.Push.Enabled && c.Push.Endpoint == "" {
		return fmt.Errorf("push.endpoint is required when push is enabled")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
