// Package config loads the diario configuration from viper and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr      string
	AuthToken string
	UserID    string
	AppURL    string
}

// GroqConfig holds the LLM provider settings.
type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GoogleConfig holds the Google OAuth application settings.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TimeZone     string
}

// SpeechConfig holds the local transcription command settings.
type SpeechConfig struct {
	Command         string
	Args            []string
	WakeLockCommand string
}

// Config is the full application configuration.
type Config struct {
	Server       ServerConfig
	Groq         GroqConfig
	Google       GoogleConfig
	Speech       SpeechConfig
	DatabasePath string
	LogLevel     string
	LogFormat    string
}

// Load assembles the configuration from viper keys, with direct
// environment variables as fallback for provider secrets.
func Load() Config {
	cfg := Config{
		Server: ServerConfig{
			Addr:      viper.GetString("server.addr"),
			AuthToken: viper.GetString("server.auth_token"),
			UserID:    viper.GetString("server.user_id"),
			AppURL:    viper.GetString("server.app_url"),
		},
		Groq: GroqConfig{
			APIKey:  viper.GetString("groq.api_key"),
			Model:   viper.GetString("groq.model"),
			BaseURL: viper.GetString("groq.base_url"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("google.client_id"),
			ClientSecret: viper.GetString("google.client_secret"),
			RedirectURL:  viper.GetString("google.redirect_url"),
			TimeZone:     viper.GetString("google.timezone"),
		},
		Speech: SpeechConfig{
			Command:         viper.GetString("speech.command"),
			Args:            viper.GetStringSlice("speech.args"),
			WakeLockCommand: viper.GetString("speech.wake_lock_command"),
		},
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		LogLevel:     viper.GetString("logging.level"),
		LogFormat:    viper.GetString("logging.format"),
	}

	if cfg.Groq.APIKey == "" {
		cfg.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.Google.ClientID == "" {
		cfg.Google.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.Google.ClientSecret == "" {
		cfg.Google.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}

	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.UserID == "" {
		cfg.Server.UserID = "local"
	}
	if cfg.Server.AppURL == "" {
		cfg.Server.AppURL = "http://localhost:3000"
	}
	if cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = "http://localhost:8080/api/auth/google/callback"
	}
	if cfg.DatabasePath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DatabasePath = filepath.Join(home, ".local", "share", "diario", "diario.db")
		} else {
			cfg.DatabasePath = "diario.db"
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
}

// Validate checks the parts of the configuration the server cannot run
// without. Google credentials are optional; sync stays disabled when
// they are absent.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DatabasePath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("console", "json")),
	)
}

// ValidateServe additionally requires what `diario serve` needs.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Groq,
		validation.Field(&c.Groq.APIKey, validation.Required.Error("GROQ_API_KEY or groq.api_key is required")),
		validation.Field(&c.Groq.BaseURL, is.URL),
	)
}

// ExpandPath expands a leading ~ and any environment variables in a
// file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
