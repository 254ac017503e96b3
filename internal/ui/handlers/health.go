// health.go — endpoints de supervision du dashboard.
// /health/live — le processus répond
// /health/ready — PostgreSQL, Redis et le backend CotoNav sont joignables
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cotonav/dashboard-module/internal/config"
)

// ReadinessChecker — vérification de disponibilité d'une dépendance.
type ReadinessChecker interface {
	// CheckReady retourne l'état (ok ou non) et un message.
	CheckReady(ctx context.Context) (bool, string)
}

// HealthHandler — endpoints de supervision. La base et Redis sont
// critiques ; le backend injoignable dégrade sans rendre le service
// indisponible, les pages restent servies depuis l'état en mémoire.
type HealthHandler struct {
	pg         ReadinessChecker
	redis      *redis.Client
	backendURL string
	httpClient *http.Client
}

// NewHealthHandler crée le handler de supervision. backendURL pointe
// vers la racine de l'API CotoNav, son endpoint /health est sondé.
func NewHealthHandler(pg ReadinessChecker, redisClient *redis.Client, backendURL string) *HealthHandler {
	return &HealthHandler{
		pg:         pg,
		redis:      redisClient,
		backendURL: backendURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
		Redis      healthCheckResult `json:"redis"`
		Backend    healthCheckResult `json:"cotonav_api"`
	} `json:"checks"`
}

// HealthLive — liveness probe.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.Version,
		"service":   "dashboard-module",
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. 200 si ok ou degraded, 503 si fail.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "dashboard-module",
	}

	resp.Checks.PostgreSQL = h.checkPostgres(ctx)
	resp.Checks.Redis = h.checkRedis(ctx)
	resp.Checks.Backend = h.checkBackend(ctx)

	resp.Status = overallStatus(
		resp.Checks.PostgreSQL.Status,
		resp.Checks.Redis.Status,
		resp.Checks.Backend.Status,
	)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkPostgres(ctx context.Context) healthCheckResult {
	if h.pg == nil {
		return healthCheckResult{Status: "fail", Message: "non initialisé"}
	}
	ok, msg := h.pg.CheckReady(ctx)
	if !ok {
		return healthCheckResult{Status: "fail", Message: msg}
	}
	return healthCheckResult{Status: "ok"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) healthCheckResult {
	if h.redis == nil {
		return healthCheckResult{Status: "fail", Message: "non initialisé"}
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return healthCheckResult{Status: "fail", Message: "Redis indisponible : " + err.Error()}
	}
	return healthCheckResult{Status: "ok"}
}

// checkBackend sonde /health du backend. Un backend injoignable rend
// le service degraded, pas fail : les pages restent servies depuis
// l'état en mémoire.
func (h *HealthHandler) checkBackend(ctx context.Context) healthCheckResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backendURL+"/health", nil)
	if err != nil {
		return healthCheckResult{Status: "degraded", Message: err.Error()}
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return healthCheckResult{Status: "degraded", Message: "backend injoignable : " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return healthCheckResult{Status: "degraded", Message: "backend en erreur : " + resp.Status}
	}
	return healthCheckResult{Status: "ok"}
}

// overallStatus agrège les statuts : fail l'emporte, puis degraded.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
