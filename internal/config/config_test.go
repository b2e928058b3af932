package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.UserID != "local" {
		t.Errorf("user id = %q", cfg.Server.UserID)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("logging defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DatabasePath == "" {
		t.Error("expected a default database path")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	cfg := Load()

	if cfg.Groq.APIKey != "gsk-test" {
		t.Errorf("groq key = %q", cfg.Groq.APIKey)
	}
	if cfg.Google.ClientID != "client-id" || cfg.Google.ClientSecret != "client-secret" {
		t.Errorf("google creds = %q/%q", cfg.Google.ClientID, cfg.Google.ClientSecret)
	}
	if err := cfg.ValidateServe(); err != nil {
		t.Errorf("serve config should validate: %v", err)
	}
}

func TestValidateServeRequiresGroqKey(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "")

	cfg := Load()
	if err := cfg.ValidateServe(); err == nil {
		t.Error("expected error without groq key")
	}
}

func TestViperKeysWin(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "env-key")
	viper.Set("groq.api_key", "viper-key")
	viper.Set("server.addr", ":9999")
	defer viper.Reset()

	cfg := Load()
	if cfg.Groq.APIKey != "viper-key" {
		t.Errorf("groq key = %q, want viper-key", cfg.Groq.APIKey)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/data/diario.db", want: filepath.Join(home, "data", "diario.db")},
		{in: "/absolute/path.db", want: "/absolute/path.db"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	t.Setenv("DIARIO_TEST_DIR", "/srv/diario")
	if got := ExpandPath("$DIARIO_TEST_DIR/db.sqlite"); got != "/srv/diario/db.sqlite" {
		t.Errorf("env expansion = %q", got)
	}
}
