package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	referenceDateLayout  = "2006-01-02"
	defaultFormBaseURL   = "http://localhost:8080/care-form"
	defaultNotifySubject = "CARE Submission Form Approval Required"
)

// Config holds the service configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Auth         AuthConfig
	Eligibility  EligibilityConfig
	Notification NotificationConfig
	Redis        RedisConfig
	CORS         CORSConfig
}

type AppConfig struct {
	Env string
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

// EligibilityConfig parameterizes the CARE eligibility filter. A zero
// ReferenceDate means "today" at evaluation time.
type EligibilityConfig struct {
	ReferenceDate time.Time
	WindowMonths  int
	RecencyDays   int
	TopCustomers  int
}

type NotificationConfig struct {
	Mode        string // log, webhook
	WebhookURL  string
	FormBaseURL string
	Subject     string
}

// RedisConfig is optional; an empty Addr disables caching and approval locks.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	RVPTTL   time.Duration
	LockTTL  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// InitConfig loads .env (if present) and wires viper to the config file and
// CARE_* environment variables.
func InitConfig(cfgFile string) error {
	_ = godotenv.Load()

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
	}

	// CARE_DATABASE_DSN overrides database.dsn
	viper.SetEnvPrefix("CARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("app.env", "dev")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.dsn", "care.db")

	viper.SetDefault("auth.jwt_secret", defaultJWTSecret)
	viper.SetDefault("auth.jwt_ttl", "12h")

	viper.SetDefault("eligibility.reference_date", "")
	viper.SetDefault("eligibility.window_months", 13)
	viper.SetDefault("eligibility.recency_days", 60)
	viper.SetDefault("eligibility.top_customers", 20)

	viper.SetDefault("notification.mode", "log")
	viper.SetDefault("notification.webhook_url", "")
	viper.SetDefault("notification.form_base_url", defaultFormBaseURL)
	viper.SetDefault("notification.subject", defaultNotifySubject)

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.rvp_ttl", "10m")
	viper.SetDefault("redis.lock_ttl", "30s")

	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
}

// Load reads the current viper state into a validated Config.
func Load() (*Config, error) {
	return FromViper(viper.GetViper())
}

// FromViper builds a Config from an arbitrary viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{Env: strings.ToLower(strings.TrimSpace(v.GetString("app.env")))},
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
			Mode: v.GetString("server.mode"),
		},
		Database: DatabaseConfig{DSN: strings.TrimSpace(v.GetString("database.dsn"))},
		Auth: AuthConfig{
			JWTSecret: strings.TrimSpace(v.GetString("auth.jwt_secret")),
		},
		Eligibility: EligibilityConfig{
			WindowMonths: v.GetInt("eligibility.window_months"),
			RecencyDays:  v.GetInt("eligibility.recency_days"),
			TopCustomers: v.GetInt("eligibility.top_customers"),
		},
		Notification: NotificationConfig{
			Mode:        strings.ToLower(strings.TrimSpace(v.GetString("notification.mode"))),
			WebhookURL:  strings.TrimSpace(v.GetString("notification.webhook_url")),
			FormBaseURL: strings.TrimSpace(v.GetString("notification.form_base_url")),
			Subject:     v.GetString("notification.subject"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("redis.addr")),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CORS: CORSConfig{AllowedOrigins: v.GetStringSlice("cors.allowed_origins")},
	}

	var err error
	if cfg.Auth.JWTTTL, err = parseDuration(v, "auth.jwt_ttl"); err != nil {
		return nil, err
	}
	if cfg.Redis.RVPTTL, err = parseDuration(v, "redis.rvp_ttl"); err != nil {
		return nil, err
	}
	if cfg.Redis.LockTTL, err = parseDuration(v, "redis.lock_ttl"); err != nil {
		return nil, err
	}

	if ref := strings.TrimSpace(v.GetString("eligibility.reference_date")); ref != "" {
		t, err := time.Parse(referenceDateLayout, ref)
		if err != nil {
			return nil, fmt.Errorf("invalid eligibility.reference_date %q: %w", ref, err)
		}
		cfg.Eligibility.ReferenceDate = t
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}
	if cfg.Auth.JWTTTL <= 0 {
		return fmt.Errorf("auth.jwt_ttl must be > 0")
	}
	if cfg.Eligibility.WindowMonths <= 0 {
		return fmt.Errorf("eligibility.window_months must be > 0")
	}
	if cfg.Eligibility.RecencyDays <= 0 {
		return fmt.Errorf("eligibility.recency_days must be > 0")
	}
	if cfg.Eligibility.TopCustomers <= 0 {
		return fmt.Errorf("eligibility.top_customers must be > 0")
	}
	switch cfg.Notification.Mode {
	case "log":
	case "webhook":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when notification.mode=webhook")
		}
	default:
		return fmt.Errorf("notification.mode must be one of: log, webhook")
	}
	if cfg.Notification.FormBaseURL == "" {
		return fmt.Errorf("notification.form_base_url must not be empty")
	}
	if cfg.Redis.Addr != "" && (cfg.Redis.RVPTTL <= 0 || cfg.Redis.LockTTL <= 0) {
		return fmt.Errorf("redis.rvp_ttl and redis.lock_ttl must be > 0")
	}

	if isProdLike(cfg.App.Env) && isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release auth.jwt_secret must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}
