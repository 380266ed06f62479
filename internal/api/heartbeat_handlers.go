package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/models"
	"github.com/statuspulse/statuspulse/internal/status"
	"github.com/statuspulse/statuspulse/internal/store"
	"github.com/statuspulse/statuspulse/internal/websocket"
)

// heartbeatRequest is the ingest payload reported by probe agents.
type heartbeatRequest struct {
	MonitorID          int       `json:"monitor_id"`
	AgentID            string    `json:"agent_id"`
	ExecutedAt         time.Time `json:"executed_at"`
	Success            bool      `json:"success"`
	ResponseTimeMs     *float64  `json:"response_time_ms,omitempty"`
	ResponseStatusCode *int      `json:"response_status_code,omitempty"`
	ErrorType          *string   `json:"error_type,omitempty"`
	ErrorMessage       *string   `json:"error_message,omitempty"`
	RawRequestHeaders  *string   `json:"raw_request_headers,omitempty"`
	RawResponseHeaders *string   `json:"raw_response_headers,omitempty"`
	RawResponseBody    *string   `json:"raw_response_body,omitempty"`
}

// HandleIngestHeartbeat appends one probe result to the heartbeat log and
// broadcasts it to live dashboard subscribers. The datacenter is resolved
// from the reporting agent and denormalized onto the row so window queries
// never need the agent join.
func HandleIngestHeartbeat(db *gorm.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.MonitorID == 0 || req.AgentID == "" {
			http.Error(w, "monitor_id and agent_id are required", http.StatusBadRequest)
			return
		}
		if req.ResponseTimeMs != nil && *req.ResponseTimeMs < 0 {
			http.Error(w, "response_time_ms must be non-negative", http.StatusBadRequest)
			return
		}
		if _, err := uuid.Parse(req.AgentID); err != nil {
			http.Error(w, "agent_id must be a uuid", http.StatusBadRequest)
			return
		}

		reference := store.NewReference(db)

		agent, err := reference.GetAgent(r.Context(), req.AgentID)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				http.Error(w, "Unknown agent", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to resolve agent", http.StatusServiceUnavailable)
			return
		}

		if _, err := reference.GetMonitor(r.Context(), req.MonitorID); err != nil {
			if errors.Is(err, status.ErrNotFound) {
				http.Error(w, "Unknown monitor", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to resolve monitor", http.StatusServiceUnavailable)
			return
		}

		executedAt := req.ExecutedAt
		if executedAt.IsZero() {
			executedAt = time.Now().UTC()
		}

		hb := &models.Heartbeat{
			ID:                 uuid.NewString(),
			MonitorID:          req.MonitorID,
			AgentID:            agent.ID,
			DatacenterID:       agent.DatacenterID,
			ExecutedAt:         executedAt,
			Success:            req.Success,
			ResponseTimeMs:     req.ResponseTimeMs,
			ResponseStatusCode: req.ResponseStatusCode,
			ErrorType:          req.ErrorType,
			ErrorMessage:       req.ErrorMessage,
			RawRequestHeaders:  req.RawRequestHeaders,
			RawResponseHeaders: req.RawResponseHeaders,
			RawResponseBody:    req.RawResponseBody,
		}

		heartbeats := store.NewHeartbeatStore(db)
		if err := heartbeats.Insert(r.Context(), hb); err != nil {
			http.Error(w, "Failed to store heartbeat", http.StatusServiceUnavailable)
			return
		}

		db.Model(&models.Agent{}).Where("id = ?", agent.ID).Update("last_seen_at", executedAt)

		hub.Broadcast("heartbeat", hb)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(hb)
	}
}
