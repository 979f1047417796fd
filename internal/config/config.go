package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	AccessTokenSecret  string   `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiry  string   `mapstructure:"ACCESS_TOKEN_EXPIRY"`
	RefreshTokenSecret string   `mapstructure:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiry string   `mapstructure:"REFRESH_TOKEN_EXPIRY"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST"`
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
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("ACCESS_TOKEN_SECRET")
	v.BindEnv("ACCESS_TOKEN_EXPIRY")
	v.BindEnv("REFRESH_TOKEN_SECRET")
	v.BindEnv("REFRESH_TOKEN_EXPIRY")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

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

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Token secrets and
// expiries are required at startup so a misconfigured process fails before
// serving its first request rather than at first login.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if _, err := c.AccessTokenTTL(); err != nil {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRY is not a valid duration: %w", err)
	}
	if _, err := c.RefreshTokenTTL(); err != nil {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRY is not a valid duration: %w", err)
	}
	return nil
}

// AccessTokenTTL parses the configured access token expiry.
func (c *Config) AccessTokenTTL() (time.Duration, error) {
	return parseExpiry(c.AccessTokenExpiry)
}

// RefreshTokenTTL parses the configured refresh token expiry.
func (c *Config) RefreshTokenTTL() (time.Duration, error) {
	return parseExpiry(c.RefreshTokenExpiry)
}

func parseExpiry(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
