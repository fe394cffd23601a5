// File: internal/handlers/health_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	client  *mongo.Client
	started time.Time
}

func NewHealthHandler(client *mongo.Client) *HealthHandler {
	return &HealthHandler{client: client, started: time.Now()}
}

// Health handles GET /health. A failing Mongo ping turns the whole
// service unhealthy so orchestrators stop routing to it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	status := http.StatusOK
	if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "disconnected"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]interface{}{
		"success": status == http.StatusOK,
		"data": map[string]interface{}{
			"status":   "chat-service",
			"database": dbStatus,
			"uptime":   time.Since(h.started).Round(time.Second).String(),
			"time":     time.Now().UTC(),
		},
	})
}
