// internal/app/features/health/health.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Optional describes the services a site can run without. They are reported
// by Check but never make it fail.
type Optional struct {
	Mail    bool   // contact notices go out over SMTP
	Storage string // media backend: "local", "s3" or blank when uploads are off
}

// Handler serves the health and readiness endpoints.
type Handler struct {
	mongoClient *mongo.Client
	optional    Optional
	started     time.Time
	logger      *zap.Logger
}

func NewHandler(mongoClient *mongo.Client, optional Optional, logger *zap.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		optional:    optional,
		started:     time.Now(),
		logger:      logger,
	}
}

// Response is the body of GET /health.
type Response struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}

// Routes mounts /health, /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the check paths load balancers expect at the root.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.mongoClient.Ping(ctx, readpref.Primary())
}

// Check answers 200 when MongoDB is reachable and 503 otherwise, listing
// each service either way.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Uptime:   time.Since(h.started).Truncate(time.Second).String(),
		Services: map[string]string{"mongodb": "ok", "mail": "disabled", "storage": "disabled"},
	}
	if h.optional.Mail {
		resp.Services["mail"] = "configured"
	}
	if h.optional.Storage != "" {
		resp.Services["storage"] = h.optional.Storage
	}

	status := http.StatusOK
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		resp.Status, resp.Services["mongodb"] = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Ready answers 200 once MongoDB responds to a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live answers 200 while the process is serving. It never touches MongoDB.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
