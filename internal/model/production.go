package model

import "time"

// Shift is the production shift a record belongs to.
type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftNight   Shift = "Night"
)

// ProductionRecord is the output of one line for one shift of one day.
// (LineID, Date, Shift) is unique.
type ProductionRecord struct {
	ProductionID    int64     `gorm:"column:production_id;primaryKey" json:"production_id"`
	LineID          int       `gorm:"not null;uniqueIndex:idx_production_line_date_shift" json:"line_id"`
	Date            time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_production_line_date_shift" json:"date"`
	Shift           Shift     `gorm:"size:16;not null;default:'Morning';uniqueIndex:idx_production_line_date_shift" json:"shift"`
	OutputUnits     int       `gorm:"not null;default:0" json:"output_units"`
	TargetUnits     int       `gorm:"not null;default:0" json:"target_units"`
	DowntimeMinutes int       `gorm:"not null;default:0" json:"downtime_minutes"`
	QualityDefects  int       `gorm:"not null;default:0" json:"quality_defects"`
	OperatorName    string    `gorm:"size:50" json:"operator_name"`
}

func (ProductionRecord) TableName() string { return "production" }
