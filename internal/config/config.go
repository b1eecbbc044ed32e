package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`

	// Mobile-money gateway
	MvolaBaseURL        string `mapstructure:"MVOLA_BASE_URL"`
	MvolaConsumerKey    string `mapstructure:"MVOLA_CONSUMER_KEY"`
	MvolaConsumerSecret string `mapstructure:"MVOLA_CONSUMER_SECRET"`
	MvolaMerchantMSISDN string `mapstructure:"MVOLA_MERCHANT_MSISDN"`
	MvolaMerchantName   string `mapstructure:"MVOLA_MERCHANT_NAME"`
	MvolaCurrency       string `mapstructure:"MVOLA_CURRENCY"`
	MvolaTimeoutSeconds int    `mapstructure:"MVOLA_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MVOLA_CURRENCY", "Ar")
	v.SetDefault("MVOLA_TIMEOUT_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("MVOLA_BASE_URL")
	v.BindEnv("MVOLA_CONSUMER_KEY")
	v.BindEnv("MVOLA_CONSUMER_SECRET")
	v.BindEnv("MVOLA_MERCHANT_MSISDN")
	v.BindEnv("MVOLA_MERCHANT_NAME")
	v.BindEnv("MVOLA_CURRENCY")
	v.BindEnv("MVOLA_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Requests are not authenticated. Do NOT use in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MvolaTimeout returns the gateway call deadline as a duration.
func (c *Config) MvolaTimeout() time.Duration {
	if c.MvolaTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.MvolaTimeoutSeconds) * time.Second
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT secret is required so that real authentication is enforced, and the
// mobile-money gateway must be fully configured: a partially configured
// gateway would accept payment requests it can never submit.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV is not development (current ENV=%q)", c.Env)
	}
	if c.MvolaBaseURL != "" {
		if c.MvolaConsumerKey == "" || c.MvolaConsumerSecret == "" {
			return fmt.Errorf("MVOLA_CONSUMER_KEY and MVOLA_CONSUMER_SECRET are required when MVOLA_BASE_URL is set")
		}
		if c.MvolaMerchantMSISDN == "" {
			return fmt.Errorf("MVOLA_MERCHANT_MSISDN is required when MVOLA_BASE_URL is set")
		}
	}
	if c.IsProduction() && c.MvolaBaseURL == "" {
		return fmt.Errorf("MVOLA_BASE_URL is required in production")
	}
	return nil
}
