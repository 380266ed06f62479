package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/config"
	"github.com/statuspulse/statuspulse/internal/store"
)

// Scheduler manages background jobs
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	retention config.RetentionConfig
}

// NewScheduler creates a new job scheduler
func NewScheduler(db *gorm.DB, retention config.RetentionConfig) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		retention: retention,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	rollup := NewHourlyRollup(s.db)

	// Roll up the previous hour every hour at minute 5
	s.cron.AddFunc("5 * * * *", func() {
		if err := rollup.Run(context.Background()); err != nil {
			log.Printf("Hourly rollup failed: %v", err)
		}
	})

	// Cleanup old heartbeats daily at 3:14 AM
	s.cron.AddFunc("14 3 * * *", func() {
		s.cleanupOldHeartbeats()
	})

	// Cleanup old hourly stats (keep 1 year) daily at 3:30 AM
	s.cron.AddFunc("30 3 * * *", func() {
		s.cleanupOldStats()
	})

	s.cron.Start()
	log.Println("Job scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Job scheduler stopped")
}

// cleanupOldHeartbeats removes heartbeats past the retention window
func (s *Scheduler) cleanupOldHeartbeats() {
	log.Println("Running heartbeat cleanup job...")

	cutoff := time.Now().UTC().Add(-s.retention.HeartbeatMaxAge)
	heartbeats := store.NewHeartbeatStore(s.db)
	removed, err := heartbeats.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		log.Printf("Failed to cleanup old heartbeats: %v", err)
		return
	}

	log.Printf("Cleaned up %d old heartbeats", removed)
}

// cleanupOldStats removes hourly rollups older than 1 year
func (s *Scheduler) cleanupOldStats() {
	log.Println("Running stats cleanup job...")

	result := s.db.Exec(`DELETE FROM hourly_stats WHERE hour < NOW() - INTERVAL '365 days'`)
	if result.Error != nil {
		log.Printf("Failed to cleanup old hourly stats: %v", result.Error)
		return
	}

	log.Printf("Cleaned up %d old hourly stats", result.RowsAffected)
}
