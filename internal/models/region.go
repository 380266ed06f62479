package models

// Region is a geographic grouping of datacenters
type Region struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name for Region
func (Region) TableName() string {
	return "regions"
}

// Datacenter is a probe location; it belongs to exactly one region
type Datacenter struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"not null"`
	RegionID int    `json:"region_id" gorm:"not null;index"`

	// Relationship (optional, for eager loading)
	Region Region `json:"-" gorm:"foreignKey:RegionID"`
}

// TableName specifies the table name for Datacenter
func (Datacenter) TableName() string {
	return "datacenters"
}
