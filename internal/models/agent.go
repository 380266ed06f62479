package models

import "time"

// Agent is a probe process running in a datacenter. Agents execute monitor
// checks and report heartbeats; this service never talks to them directly.
type Agent struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	DatacenterID int       `json:"datacenter_id" gorm:"not null;index"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationship (optional, for eager loading)
	Datacenter Datacenter `json:"-" gorm:"foreignKey:DatacenterID"`
}

// TableName specifies the table name for Agent
func (Agent) TableName() string {
	return "agents"
}
