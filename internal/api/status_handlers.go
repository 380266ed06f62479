package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/cache"
	"github.com/statuspulse/statuspulse/internal/status"
	"github.com/statuspulse/statuspulse/internal/store"
)

// HandleGetStatus returns the current per-(monitor, datacenter) status
// snapshot for the requested window. Store failures map to 503 so the
// frontend can distinguish "could not determine status" from an empty board.
func HandleGetStatus(engine *status.Engine, snapshots *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window := r.URL.Query().Get("window")
		regionID, err := optionalIntParam(r, "region")
		if err != nil {
			http.Error(w, "Invalid region id", http.StatusBadRequest)
			return
		}
		datacenterID, err := optionalIntParam(r, "datacenter")
		if err != nil {
			http.Error(w, "Invalid datacenter id", http.StatusBadRequest)
			return
		}

		key := snapshotKey(window, regionID, datacenterID)
		value, err := snapshots.GetOrFill(key, func() (interface{}, error) {
			return engine.ComputeCurrentStatus(r.Context(), window, regionID, datacenterID)
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(value.(*status.Snapshot))
	}
}

// HandleGetSeries returns the fixed-resolution bucketed series for one
// (monitor, datacenter) pair, for sparkline and heatmap rendering.
func HandleGetSeries(engine *status.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitorID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid monitor ID", http.StatusBadRequest)
			return
		}

		datacenterID, err := strconv.Atoi(r.URL.Query().Get("datacenter"))
		if err != nil {
			http.Error(w, "Missing or invalid datacenter id", http.StatusBadRequest)
			return
		}

		window := r.URL.Query().Get("window")
		buckets := 0
		if b := r.URL.Query().Get("buckets"); b != "" {
			if parsed, err := strconv.Atoi(b); err == nil && parsed > 0 && parsed <= 500 {
				buckets = parsed
			}
		}

		points, err := engine.ComputeSeries(r.Context(), monitorID, datacenterID, window, buckets)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				http.Error(w, "Monitor not found", http.StatusNotFound)
				return
			}
			writeEngineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(points)
	}
}

// HandleGetHistory returns recent raw heartbeat records within the window,
// newest first, for the status-history table view.
func HandleGetHistory(db *gorm.DB) http.HandlerFunc {
	const maxLimit = 500

	return func(w http.ResponseWriter, r *http.Request) {
		window := r.URL.Query().Get("window")
		since := time.Now().Add(-status.ResolveWindow(window))

		limit := maxLimit
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed < maxLimit {
				limit = parsed
			}
		}

		heartbeats := store.NewHeartbeatStore(db)
		records, err := heartbeats.Recent(r.Context(), since, limit)
		if err != nil {
			http.Error(w, "Failed to fetch status history", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"records": records})
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, status.ErrDataUnavailable) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "status data unavailable"})
		return
	}
	http.Error(w, "Failed to compute status", http.StatusInternalServerError)
}

func optionalIntParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func snapshotKey(window string, regionID, datacenterID *int) string {
	key := "status:" + window
	if regionID != nil {
		key += fmt.Sprintf(":r%d", *regionID)
	}
	if datacenterID != nil {
		key += fmt.Sprintf(":d%d", *datacenterID)
	}
	return key
}
