package model

import "time"

// MachineStatus is the operating state of a machine.
type MachineStatus string

const (
	MachineRunning     MachineStatus = "Running"
	MachineStopped     MachineStatus = "Stopped"
	MachineMaintenance MachineStatus = "Maintenance"
)

// Valid reports whether s is one of the enumerated machine states.
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineRunning, MachineStopped, MachineMaintenance:
		return true
	}
	return false
}

// Machine represents a piece of shop-floor equipment.
type Machine struct {
	MachineID       int64         `gorm:"column:machine_id;primaryKey" json:"machine_id"`
	Name            string        `gorm:"size:100;not null" json:"name"`
	Status          MachineStatus `gorm:"size:16;not null;default:'Running'" json:"status"`
	LastMaintenance *time.Time    `gorm:"type:date" json:"last_maintenance"`
	Location        string        `gorm:"size:50" json:"location"`
	Manufacturer    string        `gorm:"size:50" json:"manufacturer"`
	InstalledDate   *time.Time    `gorm:"type:date" json:"installed_date"`
}

// TableName pins the table name used by the setup routine and raw queries.
func (Machine) TableName() string { return "machines" }
