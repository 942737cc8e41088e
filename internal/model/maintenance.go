package model

import "time"

// MaintenanceType classifies a maintenance job.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "Preventive"
	MaintenanceCorrective MaintenanceType = "Corrective"
	MaintenanceEmergency  MaintenanceType = "Emergency"
)

// MaintenanceStatus tracks the progress of a maintenance job.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
)

// MaintenanceEntry is a scheduled or completed maintenance job on a machine.
type MaintenanceEntry struct {
	MaintenanceID   int64             `gorm:"column:maintenance_id;primaryKey" json:"maintenance_id"`
	MachineID       int64             `gorm:"index" json:"machine_id"`
	ScheduleDate    time.Time         `gorm:"type:date;not null;index" json:"schedule_date"`
	CompletionDate  *time.Time        `gorm:"type:date" json:"completion_date"`
	MaintenanceType MaintenanceType   `gorm:"size:16;not null;default:'Preventive'" json:"maintenance_type"`
	Status          MaintenanceStatus `gorm:"size:16;not null;default:'Scheduled'" json:"status"`
	Remarks         string            `gorm:"type:text" json:"remarks"`
	Technician      string            `gorm:"size:50" json:"technician"`
	DurationHours   float64           `gorm:"precision:4;scale:2" json:"duration_hours"`
	Cost            float64           `gorm:"precision:10;scale:2" json:"cost"`

	// Associations
	Machine *Machine `gorm:"foreignKey:MachineID;references:MachineID" json:"-"`
}

func (MaintenanceEntry) TableName() string { return "maintenance" }
