package api

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/store"
)

// HandleGetMonitors lists all monitor definitions (reference data for the
// dashboard's filter dropdowns).
func HandleGetMonitors(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitors, err := store.NewReference(db).ListMonitors(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch monitors", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(monitors)
	}
}

// HandleGetRegions lists all regions
func HandleGetRegions(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, err := store.NewReference(db).ListRegions(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch regions", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(regions)
	}
}

// HandleGetDatacenters lists all datacenters
func HandleGetDatacenters(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datacenters, err := store.NewReference(db).ListDatacenters(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch datacenters", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(datacenters)
	}
}
