// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://mc:mc@localhost:5432/mc?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_PRIVATE_KEY_PATH", "keys/test.pem")
	t.Setenv("ENVIRONMENT", "development")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.CookieName != "mc_session" {
		t.Errorf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Session.Lifetime != 12*time.Hour {
		t.Errorf("session lifetime = %s", cfg.Session.Lifetime)
	}
	if cfg.Tokens.MaxPerUser != 10 {
		t.Errorf("max per user = %d", cfg.Tokens.MaxPerUser)
	}
	if cfg.Jobs.TokenCleanupSpec != "@every 1h" {
		t.Errorf("cleanup spec = %q", cfg.Jobs.TokenCleanupSpec)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MEILISEARCH_HOST", "http://search:7700")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Session.Lifetime != 30*time.Minute {
		t.Errorf("session lifetime = %s", cfg.Session.Lifetime)
	}
	if cfg.Mail.Host != "smtp.example.com" {
		t.Errorf("mail host = %q", cfg.Mail.Host)
	}
	if cfg.Meilisearch.Host != "http://search:7700" {
		t.Errorf("meilisearch host = %q", cfg.Meilisearch.Host)
	}
	if got := cfg.Server.Address(); got != "0.0.0.0:9090" {
		t.Errorf("address = %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "tokens:\n  max_per_user: 3\nlog:\n  format: text\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tokens.MaxPerUser != 3 {
		t.Errorf("max per user = %d", cfg.Tokens.MaxPerUser)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q", cfg.Log.Format)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database",
			env:     map[string]string{"DATABASE_URL": ""},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing redis",
			env:     map[string]string{"REDIS_URL": ""},
			wantErr: "REDIS_URL",
		},
		{
			name:    "production needs secure cookie",
			env:     map[string]string{"ENVIRONMENT": "production"},
			wantErr: "SESSION_COOKIE_SECURE",
		},
		{
			name: "push without endpoint",
			env: map[string]string{
				"PUSH_ENABLED":  "true",
				"PUSH_ENDPOINT": "",
			},
			wantErr: "push.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}
