package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db    *sql.DB
	redis *redis.Client
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

type healthCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthReport struct {
	Status    string                 `json:"status"`
	Checks    map[string]healthCheck `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// Live reports process liveness only.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthReport{
		Status:    "alive",
		Checks:    map[string]healthCheck{},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready verifies the service can reach its backing stores.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := healthReport{
		Status:    "ready",
		Checks:    map[string]healthCheck{},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		report.Checks["postgres"] = healthCheck{Status: "down", Error: err.Error()}
		report.Status = "not ready"
		status = http.StatusServiceUnavailable
	} else {
		report.Checks["postgres"] = healthCheck{Status: "up"}
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		report.Checks["redis"] = healthCheck{Status: "down", Error: err.Error()}
		report.Status = "not ready"
		status = http.StatusServiceUnavailable
	} else {
		report.Checks["redis"] = healthCheck{Status: "up"}
	}

	writeHealth(w, status, report)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.Ready(w, r)
}

func writeHealth(w http.ResponseWriter, status int, report healthReport) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
