package model

import "time"

// DowntimeReason is the recorded cause of a downtime incident.
type DowntimeReason string

const (
	ReasonBreakdown        DowntimeReason = "Breakdown"
	ReasonMaintenance      DowntimeReason = "Maintenance"
	ReasonMaterialShortage DowntimeReason = "Material Shortage"
	ReasonQualityCheck     DowntimeReason = "Quality Check"
	ReasonPowerOutage      DowntimeReason = "Power Outage"
	ReasonOther            DowntimeReason = "Other"
)

// DowntimeIncident is a single stoppage of a machine on a line.
type DowntimeIncident struct {
	DowntimeID      int64          `gorm:"column:downtime_id;primaryKey" json:"downtime_id"`
	MachineID       int64          `gorm:"index" json:"machine_id"`
	LineID          int            `gorm:"index" json:"line_id"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	DurationMinutes int            `json:"duration_minutes"`
	Reason          DowntimeReason `gorm:"size:32" json:"reason"`
	Description     string         `gorm:"type:text" json:"description"`
	ReportedBy      string         `gorm:"size:50" json:"reported_by"`

	// Associations
	Machine *Machine `gorm:"foreignKey:MachineID;references:MachineID" json:"-"`
}

func (DowntimeIncident) TableName() string { return "downtime" }
