package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/models"
	"github.com/statuspulse/statuspulse/internal/status"
)

// HeartbeatStore is the gorm-backed implementation of the engine's heartbeat
// read contract, plus the append and retention paths used outside the engine.
type HeartbeatStore struct {
	db *gorm.DB
}

// NewHeartbeatStore creates a heartbeat store over the given database
func NewHeartbeatStore(db *gorm.DB) *HeartbeatStore {
	return &HeartbeatStore{db: db}
}

// Query returns heartbeats matching the filter ordered by executed_at
// ascending. All filters are applied in SQL so the indexes on
// (monitor_id, executed_at) and (datacenter_id, executed_at) bound the scan.
func (s *HeartbeatStore) Query(ctx context.Context, filter status.HeartbeatFilter) ([]models.Heartbeat, error) {
	q := s.db.WithContext(ctx).Where("executed_at >= ?", filter.ExecutedAfter)

	if filter.MonitorID != nil {
		q = q.Where("monitor_id = ?", *filter.MonitorID)
	}
	if filter.DatacenterID != nil {
		q = q.Where("datacenter_id = ?", *filter.DatacenterID)
	}
	if filter.RegionID != nil {
		q = q.Where("datacenter_id IN (SELECT id FROM datacenters WHERE region_id = ?)", *filter.RegionID)
	}

	var heartbeats []models.Heartbeat
	if err := q.Order("executed_at ASC").Find(&heartbeats).Error; err != nil {
		return nil, fmt.Errorf("query heartbeats: %w", err)
	}
	return heartbeats, nil
}

// Insert appends one heartbeat row. Rows are immutable once written.
func (s *HeartbeatStore) Insert(ctx context.Context, hb *models.Heartbeat) error {
	if err := s.db.WithContext(ctx).Create(hb).Error; err != nil {
		return fmt.Errorf("insert heartbeat: %w", err)
	}
	return nil
}

// Recent returns the newest heartbeats within the given lookback, newest
// first, capped at limit. Used by the raw history endpoint.
func (s *HeartbeatStore) Recent(ctx context.Context, since time.Time, limit int) ([]models.Heartbeat, error) {
	var heartbeats []models.Heartbeat
	err := s.db.WithContext(ctx).
		Where("executed_at >= ?", since).
		Order("executed_at DESC").
		Limit(limit).
		Find(&heartbeats).Error
	if err != nil {
		return nil, fmt.Errorf("query recent heartbeats: %w", err)
	}
	return heartbeats, nil
}

// DeleteOlderThan removes heartbeats executed before the cutoff and returns
// the number of rows removed. Only the retention job calls this.
func (s *HeartbeatStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("executed_at < ?", cutoff).
		Delete(&models.Heartbeat{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old heartbeats: %w", result.Error)
	}
	return result.RowsAffected, nil
}
