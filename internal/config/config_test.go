package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv positionne le minimum de variables obligatoires.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DM_API_BASE_URL", "https://api.cotonav.bj/api")
	t.Setenv("DM_SERVICE_EMAIL", "dashboard@cotonav.bj")
	t.Setenv("DM_SERVICE_PASSWORD", "secret")
	t.Setenv("DM_DB_HOST", "localhost")
	t.Setenv("DM_DB_NAME", "dashboard")
	t.Setenv("DM_DB_USER", "dashboard")
	t.Setenv("DM_DB_PASSWORD", "dashboard")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() erreur inattendue : %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, attendu 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, attendu info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, attendu json", cfg.LogFormat)
	}
	if cfg.RefreshInterval != 3*time.Second {
		t.Errorf("RefreshInterval = %v, attendu 3s", cfg.RefreshInterval)
	}
	if cfg.RedisChannel != "cotonav:notifications" {
		t.Errorf("RedisChannel = %q, attendu cotonav:notifications", cfg.RedisChannel)
	}
	if cfg.JWTJWKSURL != "https://api.cotonav.bj/api/auth/jwks" {
		t.Errorf("JWTJWKSURL = %q, dérivation incorrecte", cfg.JWTJWKSURL)
	}
	// API en https : cookie Secure par défaut
	if !cfg.SecureCookie {
		t.Error("SecureCookie = false, attendu true pour une API en https")
	}
}

func TestLoadTrimsAPIBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DM_API_BASE_URL", "https://api.cotonav.bj/api///")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() erreur inattendue : %v", err)
	}
	if cfg.APIBaseURL != "https://api.cotonav.bj/api" {
		t.Errorf("APIBaseURL = %q, les / finaux doivent être retirés", cfg.APIBaseURL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"URL API absente", "DM_API_BASE_URL"},
		{"email de service absent", "DM_SERVICE_EMAIL"},
		{"mot de passe de service absent", "DM_SERVICE_PASSWORD"},
		{"hôte BD absent", "DM_DB_HOST"},
		{"nom BD absent", "DM_DB_NAME"},
		{"utilisateur BD absent", "DM_DB_USER"},
		{"mot de passe BD absent", "DM_DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() sans %s : erreur attendue", tt.key)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("erreur %q ne mentionne pas %s", err, tt.key)
			}
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port non numérique", "DM_PORT", "abc"},
		{"port hors plage", "DM_PORT", "70000"},
		{"niveau de log inconnu", "DM_LOG_LEVEL", "verbose"},
		{"format de log inconnu", "DM_LOG_FORMAT", "xml"},
		{"mode SSL inconnu", "DM_DB_SSL_MODE", "maybe"},
		{"durée invalide", "DM_REFRESH_INTERVAL", "trois secondes"},
		{"intervalle trop court", "DM_REFRESH_INTERVAL", "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() avec %s=%q : erreur attendue", tt.key, tt.value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLogLevel(%q) : erreur attendue", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLogLevel(%q) erreur inattendue : %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, attendu %v", tt.in, got, tt.want)
		}
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db.local", DBPort: 5433, DBName: "dash",
		DBUser: "u", DBPassword: "p", DBSSLMode: "require",
	}
	want := "host=db.local port=5433 dbname=dash user=u password=p sslmode=require"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, attendu %q", got, want)
	}
}
