// Package config loads process configuration from the environment.
//
// Required:
//
//   - DISCORD_BOT_TOKEN: bot token used to post announcements
//   - DISCORD_BOT_CHANNEL: channel every hiring post is sent to
//   - POSTGRES_SECRET_URL: Postgres connection URL
//   - POSTGRES_SECRET_SESSION_SALT: secret prefix hashed into session tokens
//
// The Discord OAuth group (DISCORD_CLIENT_ID, DISCORD_CLIENT_SECRET,
// DISCORD_REDIRECT_URL, REDIS_ADDR) is optional but all-or-nothing.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort  string `mapstructure:"APP_PORT" validate:"required"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DiscordBotToken  string `mapstructure:"DISCORD_BOT_TOKEN" validate:"required"`
	DiscordChannelID string `mapstructure:"DISCORD_BOT_CHANNEL" validate:"required"`

	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL  string `mapstructure:"DISCORD_REDIRECT_URL" validate:"omitempty,url"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	DatabaseURL string        `mapstructure:"POSTGRES_SECRET_URL" validate:"required"`
	DBMaxConns  int           `mapstructure:"DB_MAX_CONNS" validate:"min=1"`
	SessionSalt string        `mapstructure:"POSTGRES_SECRET_SESSION_SALT" validate:"required"`
	SessionTTL  time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
}

var keys = []string{
	"APP_PORT",
	"LOG_LEVEL",
	"DISCORD_BOT_TOKEN",
	"DISCORD_BOT_CHANNEL",
	"DISCORD_CLIENT_ID",
	"DISCORD_CLIENT_SECRET",
	"DISCORD_REDIRECT_URL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"POSTGRES_SECRET_URL",
	"DB_MAX_CONNS",
	"POSTGRES_SECRET_SESSION_SALT",
	"SESSION_TTL",
}

// Load reads the environment and returns an error naming every missing or
// malformed variable.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 3)
	v.SetDefault("SESSION_TTL", 30*24*time.Hour)

	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return c.validateOAuthGroup()
}

// OAuthEnabled reports whether the Discord login flow is configured.
func (c Config) OAuthEnabled() bool {
	return c.DiscordClientID != ""
}

func (c Config) validateOAuthGroup() error {
	group := map[string]string{
		"DISCORD_CLIENT_ID":     c.DiscordClientID,
		"DISCORD_CLIENT_SECRET": c.DiscordClientSecret,
		"DISCORD_REDIRECT_URL":  c.DiscordRedirectURL,
		"REDIS_ADDR":            c.RedisAddr,
	}

	var set, missing []string
	for k, val := range group {
		if val == "" {
			missing = append(missing, k)
		} else {
			set = append(set, k)
		}
	}
	if len(set) == 0 || len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return fmt.Errorf("config: discord oauth partially configured, missing %s", strings.Join(missing, ", "))
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envName(fe.StructField())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" is required")
		case "url":
			msgs = append(msgs, name+" must be a URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param()))
		}
	}
	return errors.New("config: " + strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"AppPort":            "APP_PORT",
	"DiscordBotToken":    "DISCORD_BOT_TOKEN",
	"DiscordChannelID":   "DISCORD_BOT_CHANNEL",
	"DiscordRedirectURL": "DISCORD_REDIRECT_URL",
	"DatabaseURL":        "POSTGRES_SECRET_URL",
	"DBMaxConns":         "DB_MAX_CONNS",
	"SessionSalt":        "POSTGRES_SECRET_SESSION_SALT",
	"SessionTTL":         "SESSION_TTL",
}

func envName(field string) string {
	if n, ok := envNames[field]; ok {
		return n
	}
	return field
}
