package models

import "time"

// Default latency thresholds applied when a monitor carries none.
const (
	DefaultWarningThresholdMs  = 500
	DefaultCriticalThresholdMs = 1000
)

// Monitor represents a configured check definition. Monitors are managed by an
// external admin surface; this service reads them as reference data only.
type Monitor struct {
	ID                  int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                string    `json:"name" gorm:"not null"`
	Type                string    `json:"type" gorm:"not null;index"` // HTTP, HTTPS, TCP, UDP, PING, DNS
	TargetHost          string    `json:"target_host" gorm:"not null"`
	TargetPort          *int      `json:"target_port,omitempty"`
	TargetPath          *string   `json:"target_path,omitempty"`
	HTTPMethod          *string   `json:"http_method,omitempty"`
	ExpectedStatusCode  *int      `json:"expected_status_code,omitempty"`
	WarningThresholdMs  *int      `json:"warning_threshold_ms,omitempty"`
	CriticalThresholdMs *int      `json:"critical_threshold_ms,omitempty"`
	Active              bool      `json:"active" gorm:"default:true;index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for Monitor
func (Monitor) TableName() string {
	return "monitors"
}

// Thresholds returns the monitor's latency thresholds in milliseconds,
// substituting the documented defaults for absent values.
func (m *Monitor) Thresholds() (warningMs, criticalMs int) {
	warningMs = DefaultWarningThresholdMs
	criticalMs = DefaultCriticalThresholdMs
	if m.WarningThresholdMs != nil && *m.WarningThresholdMs >= 0 {
		warningMs = *m.WarningThresholdMs
	}
	if m.CriticalThresholdMs != nil && *m.CriticalThresholdMs >= 0 {
		criticalMs = *m.CriticalThresholdMs
	}
	if criticalMs < warningMs {
		criticalMs = warningMs
	}
	return warningMs, criticalMs
}

// DatacenterMonitor assigns a monitor to a datacenter. Assignments drive which
// (monitor, datacenter) pairs are expected to produce heartbeats, so pairs
// with no recent data can still be surfaced.
type DatacenterMonitor struct {
	ID           int `json:"id" gorm:"primaryKey;autoIncrement"`
	DatacenterID int `json:"datacenter_id" gorm:"not null;uniqueIndex:idx_datacenter_monitor"`
	MonitorID    int `json:"monitor_id" gorm:"not null;uniqueIndex:idx_datacenter_monitor"`

	// Relationships (optional, for eager loading)
	Datacenter Datacenter `json:"-" gorm:"foreignKey:DatacenterID"`
	Monitor    Monitor    `json:"-" gorm:"foreignKey:MonitorID"`
}

// TableName specifies the table name for DatacenterMonitor
func (DatacenterMonitor) TableName() string {
	return "datacenter_monitors"
}
