// Package config — chargement et validation de la configuration du
// Dashboard Module depuis les variables d'environnement.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version de l'application, injectée à la compilation via -ldflags.
var Version = "dev"

// Config contient tous les paramètres de configuration du Dashboard Module.
type Config struct {
	// --- Serveur ---

	// Port du serveur HTTP
	Port int
	// Niveau de log (debug, info, warn, error)
	LogLevel slog.Level
	// Format des logs (json, text)
	LogFormat string

	// --- API CotoNav (backend REST) ---

	// URL de base de l'API CotoNav (ex: https://api.cotonav.bj/api)
	APIBaseURL string
	// Email du compte de service (rafraîchissements en arrière-plan)
	ServiceEmail string
	// Mot de passe du compte de service
	ServicePassword string
	// URL du endpoint JWKS du backend (auto-dérivée de APIBaseURL si absente)
	JWTJWKSURL string
	// Issuer attendu des JWT émis par le backend (auto-dérivé si absent)
	JWTIssuer string

	// --- PostgreSQL (état local du dashboard) ---

	// Hôte PostgreSQL
	DBHost string
	// Port PostgreSQL
	DBPort int
	// Nom de la base de données
	DBName string
	// Utilisateur PostgreSQL
	DBUser string
	// Mot de passe PostgreSQL
	DBPassword string
	// Mode SSL : disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Redis (flux de notifications temps réel) ---

	// Adresse Redis (host:port)
	RedisAddr string
	// Mot de passe Redis (optionnel)
	RedisPassword string
	// Index de base Redis
	RedisDB int
	// Canal pub/sub des notifications de la plateforme
	RedisChannel string

	// --- Rafraîchissement ---

	// Intervalle de rafraîchissement silencieux des vues sondées
	// (tableau de bord, favoris)
	RefreshInterval time.Duration
	// Intervalle d'envoi des événements SSE vers le navigateur
	SSEInterval time.Duration
	// Intervalle de vérification des dépendances (topologymetrics)
	DephealthCheckInterval time.Duration
	// Groupe du service dans les métriques topologymetrics
	DephealthGroup string

	// --- UI ---

	// Secret de chiffrement des sessions UI (AES-256-GCM)
	UISessionSecret string
	// Cookie Secure (true si le dashboard est servi en HTTPS)
	SecureCookie bool

	// --- Arrêt gracieux ---

	// Délai maximal de l'arrêt gracieux du serveur HTTP
	ShutdownTimeout time.Duration
}

// Load charge la configuration depuis les variables d'environnement,
// valide les champs obligatoires et retourne Config ou une erreur.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Serveur ---

	// DM_PORT — port du serveur HTTP (par défaut 8080)
	cfg.Port, err = getEnvInt("DM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("DM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("DM_PORT: valeur %d hors de la plage 1-65535", cfg.Port)
	}

	// DM_LOG_LEVEL — niveau de log (par défaut info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("DM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DM_LOG_LEVEL: %w", err)
	}

	// DM_LOG_FORMAT — format des logs (par défaut json)
	cfg.LogFormat = getEnvDefault("DM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DM_LOG_FORMAT: valeur %q invalide, valeurs admises : json, text", cfg.LogFormat)
	}

	// --- API CotoNav ---

	// DM_API_BASE_URL — obligatoire
	cfg.APIBaseURL, err = getEnvRequired("DM_API_BASE_URL")
	if err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// DM_SERVICE_EMAIL — obligatoire (compte de service)
	cfg.ServiceEmail, err = getEnvRequired("DM_SERVICE_EMAIL")
	if err != nil {
		return nil, err
	}

	// DM_SERVICE_PASSWORD — obligatoire
	cfg.ServicePassword, err = getEnvRequired("DM_SERVICE_PASSWORD")
	if err != nil {
		return nil, err
	}

	// DM_JWT_JWKS_URL — auto-dérivée de APIBaseURL si absente
	cfg.JWTJWKSURL = getEnvDefault("DM_JWT_JWKS_URL", cfg.APIBaseURL+"/auth/jwks")

	// DM_JWT_ISSUER — auto-dérivé de APIBaseURL si absent
	cfg.JWTIssuer = getEnvDefault("DM_JWT_ISSUER", cfg.APIBaseURL)

	// --- PostgreSQL ---

	// DM_DB_HOST — obligatoire
	cfg.DBHost, err = getEnvRequired("DM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// DM_DB_PORT — port PostgreSQL (par défaut 5432)
	cfg.DBPort, err = getEnvInt("DM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("DM_DB_PORT: %w", err)
	}

	// DM_DB_NAME — obligatoire
	cfg.DBName, err = getEnvRequired("DM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// DM_DB_USER — obligatoire
	cfg.DBUser, err = getEnvRequired("DM_DB_USER")
	if err != nil {
		return nil, err
	}

	// DM_DB_PASSWORD — obligatoire
	cfg.DBPassword, err = getEnvRequired("DM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// DM_DB_SSL_MODE — mode SSL (par défaut disable)
	cfg.DBSSLMode = getEnvDefault("DM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("DM_DB_SSL_MODE: valeur %q invalide, valeurs admises : disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Redis ---

	// DM_REDIS_ADDR — adresse Redis (par défaut localhost:6379)
	cfg.RedisAddr = getEnvDefault("DM_REDIS_ADDR", "localhost:6379")

	// DM_REDIS_PASSWORD — optionnel
	cfg.RedisPassword = getEnvDefault("DM_REDIS_PASSWORD", "")

	// DM_REDIS_DB — index de base (par défaut 0)
	cfg.RedisDB, err = getEnvInt("DM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("DM_REDIS_DB: %w", err)
	}

	// DM_REDIS_CHANNEL — canal pub/sub (par défaut cotonav:notifications)
	cfg.RedisChannel = getEnvDefault("DM_REDIS_CHANNEL", "cotonav:notifications")

	// --- Rafraîchissement ---

	// DM_REFRESH_INTERVAL — intervalle de sondage silencieux (par défaut 3s)
	cfg.RefreshInterval, err = getEnvDuration("DM_REFRESH_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_REFRESH_INTERVAL: %w", err)
	}
	if cfg.RefreshInterval < time.Second {
		return nil, fmt.Errorf("DM_REFRESH_INTERVAL: %s trop court, minimum 1s", cfg.RefreshInterval)
	}

	// DM_SSE_INTERVAL — intervalle SSE (par défaut 3s)
	cfg.SSEInterval, err = getEnvDuration("DM_SSE_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_SSE_INTERVAL: %w", err)
	}

	// DM_DEPHEALTH_CHECK_INTERVAL — intervalle des vérifications (par défaut 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("DM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// DM_DEPHEALTH_GROUP — groupe dans les métriques (par défaut cotonav)
	cfg.DephealthGroup = getEnvDefault("DM_DEPHEALTH_GROUP", "cotonav")

	// --- UI ---

	// DM_UI_SESSION_SECRET — optionnel (clé éphémère générée si absent)
	cfg.UISessionSecret = getEnvDefault("DM_UI_SESSION_SECRET", "")

	// DM_SECURE_COOKIE — par défaut true si l'API est en https
	secureDefault := "false"
	if strings.HasPrefix(cfg.APIBaseURL, "https") {
		secureDefault = "true"
	}
	cfg.SecureCookie = getEnvDefault("DM_SECURE_COOKIE", secureDefault) == "true"

	// --- Arrêt gracieux ---

	// DM_SHUTDOWN_TIMEOUT — délai d'arrêt gracieux (par défaut 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("DM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN retourne la chaîne de connexion PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL retourne l'URL de connexion PostgreSQL (pour les métriques).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger configure le logger slog global selon la configuration.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Fonctions utilitaires ---

// getEnvRequired retourne la valeur de la variable d'environnement
// ou une erreur si elle n'est pas définie.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: variable d'environnement obligatoire non définie", key)
	}
	return val, nil
}

// getEnvDefault retourne la valeur de la variable d'environnement
// ou la valeur par défaut.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt retourne la valeur entière de la variable d'environnement
// ou la valeur par défaut.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("entier invalide : %q", val)
	}
	return n, nil
}

// getEnvDuration retourne un time.Duration depuis la variable
// d'environnement ou la valeur par défaut.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("durée invalide : %q (format Go attendu : 3s, 1m, 1h)", val)
	}
	return d, nil
}

// parseLogLevel convertit une chaîne de niveau de log en slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("niveau %q invalide, valeurs admises : debug, info, warn, error", level)
	}
}
