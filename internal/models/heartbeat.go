package models

import "time"

// Heartbeat is one executed check result reported by a probe agent. Rows are
// append-only: this service reads ranges and never mutates them (retention is
// handled by a background job, not by request paths).
type Heartbeat struct {
	ID           string `json:"id" gorm:"type:uuid;primaryKey"`
	MonitorID    int    `json:"monitor_id" gorm:"not null;index:idx_monitor_executed"`
	AgentID      string `json:"agent_id" gorm:"type:uuid;not null;index"`
	DatacenterID int    `json:"datacenter_id" gorm:"not null;index:idx_datacenter_executed"` // denormalized from the agent for range-query pushdown

	ExecutedAt time.Time `json:"executed_at" gorm:"not null;index:idx_monitor_executed,sort:desc;index:idx_datacenter_executed,sort:desc;index:idx_executed"`

	Success        bool     `json:"success" gorm:"not null"`
	ResponseTimeMs *float64 `json:"response_time_ms,omitempty"` // nil when latency was not measurable

	// Opaque pass-through fields; never interpreted by the aggregation engine.
	ResponseStatusCode *int    `json:"response_status_code,omitempty"`
	ErrorType          *string `json:"error_type,omitempty"`
	ErrorMessage       *string `json:"error_message,omitempty"`
	RawRequestHeaders  *string `json:"raw_request_headers,omitempty" gorm:"type:text"`
	RawResponseHeaders *string `json:"raw_response_headers,omitempty" gorm:"type:text"`
	RawResponseBody    *string `json:"raw_response_body,omitempty" gorm:"type:text"`

	// Relationships (optional, for eager loading)
	Monitor Monitor `json:"-" gorm:"foreignKey:MonitorID"`
	Agent   Agent   `json:"-" gorm:"foreignKey:AgentID"`
}

// TableName specifies the table name for Heartbeat
func (Heartbeat) TableName() string {
	return "heartbeats"
}
