package store

import (
	"time"

	"factory-chatbot-backend/internal/model"
)

// LineOutput is one production row reduced to what the chatbot reports.
type LineOutput struct {
	LineID          int       `json:"line_id"`
	Date            time.Time `json:"date"`
	Shift           string    `json:"shift"`
	OutputUnits     int       `json:"output_units"`
	DowntimeMinutes int       `json:"downtime_minutes"`
}

// MaintenanceRow is a machine joined with one of its maintenance schedule
// rows. ScheduleDate and Remarks are nil when the machine has no schedule row.
type MaintenanceRow struct {
	MachineID    int64               `json:"machine_id"`
	Name         string              `json:"name"`
	Status       model.MachineStatus `json:"status"`
	ScheduleDate *time.Time          `json:"schedule_date"`
	Remarks      *string             `json:"remarks"`
}

// LineDowntime is the downtime recorded on a production row.
type LineDowntime struct {
	Date            time.Time `json:"date"`
	DowntimeMinutes int       `json:"downtime_minutes"`
}

// DailyTotal aggregates every production row of one calendar date.
type DailyTotal struct {
	Date          time.Time `json:"date"`
	TotalOutput   int64     `json:"total_output"`
	TotalDowntime int64     `json:"total_downtime"`
}
