package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"factory-chatbot-backend/internal/model"
)

// SeedSummary reports how many rows Seed inserted into each table.
type SeedSummary struct {
	Machines    int
	Production  int
	Maintenance int
	Downtime    int
	From        time.Time
	To          time.Time
}

var operators = []string{"John Smith", "Maria Garcia", "Robert Johnson", "Lisa Chen", "Mike Brown", "Sarah Wilson"}

// Seed clears the four factory tables and loads the demonstration data set.
// All dates are relative to today. It runs in a single transaction.
func Seed(ctx context.Context, db *gorm.DB, today time.Time) (SeedSummary, error) {
	today = model.Day(today)
	days := func(n int) time.Time { return today.AddDate(0, 0, n) }
	at := func(n int, hour, minute int) time.Time {
		return days(n).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	ptr := func(t time.Time) *time.Time { return &t }
	installed := func(y int, m time.Month, d int) *time.Time { return ptr(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) }

	machines := []model.Machine{
		{MachineID: 1, Name: "Injection Molding Machine A", Status: model.MachineRunning, LastMaintenance: ptr(days(-20)), Location: "Section A", Manufacturer: "Haitian", InstalledDate: installed(2020, 3, 15)},
		{MachineID: 2, Name: "CNC Machining Center B", Status: model.MachineMaintenance, LastMaintenance: ptr(days(-25)), Location: "Section B", Manufacturer: "Mazak", InstalledDate: installed(2019, 8, 20)},
		{MachineID: 3, Name: "Assembly Robot C", Status: model.MachineRunning, LastMaintenance: ptr(days(-15)), Location: "Assembly Line", Manufacturer: "Fanuc", InstalledDate: installed(2021, 5, 10)},
		{MachineID: 4, Name: "Packaging Line D", Status: model.MachineStopped, LastMaintenance: ptr(days(-17)), Location: "Packaging Area", Manufacturer: "Bosch", InstalledDate: installed(2020, 11, 30)},
		{MachineID: 5, Name: "Laser Cutting Machine E", Status: model.MachineRunning, LastMaintenance: ptr(days(-10)), Location: "Section C", Manufacturer: "Trumpf", InstalledDate: installed(2022, 2, 14)},
		{MachineID: 6, Name: "3D Printer F", Status: model.MachineRunning, LastMaintenance: ptr(days(-8)), Location: "R&D Lab", Manufacturer: "Stratasys", InstalledDate: installed(2023, 1, 15)},
		{MachineID: 7, Name: "Quality Scanner G", Status: model.MachineMaintenance, LastMaintenance: ptr(days(-5)), Location: "Quality Control", Manufacturer: "Keyence", InstalledDate: installed(2021, 9, 5)},
		{MachineID: 8, Name: "Conveyor System H", Status: model.MachineRunning, LastMaintenance: ptr(days(-12)), Location: "Assembly Line", Manufacturer: "Siemens", InstalledDate: installed(2020, 7, 22)},
	}

	type shiftPlan struct {
		line                              int
		shift                             model.Shift
		output, target, downtime, defects int
		operatorOffset                    int
	}
	plans := []shiftPlan{
		{1, model.ShiftMorning, 1250, 1200, 25, 8, 0},
		{1, model.ShiftEvening, 1180, 1150, 45, 12, 1},
		{1, model.ShiftNight, 1100, 1100, 60, 15, 2},
		{2, model.ShiftMorning, 980, 1000, 35, 10, 3},
		{2, model.ShiftEvening, 920, 950, 75, 18, 4},
		{2, model.ShiftNight, 850, 900, 90, 22, 5},
	}
	var production []model.ProductionRecord
	for daysAgo := 0; daysAgo < 10; daysAgo++ {
		for _, p := range plans {
			production = append(production, model.ProductionRecord{
				LineID:          p.line,
				Date:            days(-daysAgo),
				Shift:           p.shift,
				OutputUnits:     p.output,
				TargetUnits:     p.target,
				DowntimeMinutes: p.downtime,
				QualityDefects:  p.defects,
				OperatorName:    operators[(daysAgo+p.operatorOffset)%len(operators)],
			})
		}
	}

	maintenance := []model.MaintenanceEntry{
		{MachineID: 2, ScheduleDate: today, CompletionDate: ptr(today), MaintenanceType: model.MaintenanceCorrective, Status: model.MaintenanceCompleted, Remarks: "Bearing replacement and calibration", Technician: "Tech Raj Sharma", DurationHours: 6.5, Cost: 12500},
		{MachineID: 1, ScheduleDate: days(7), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceScheduled, Remarks: "Quarterly maintenance - hydraulic system check", Technician: "Tech Singh", DurationHours: 4, Cost: 8000},
		{MachineID: 3, ScheduleDate: days(14), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceScheduled, Remarks: "Software update and sensor calibration", Technician: "Tech Kumar", DurationHours: 3.5, Cost: 5500},
		{MachineID: 7, ScheduleDate: today, CompletionDate: ptr(today), MaintenanceType: model.MaintenanceEmergency, Status: model.MaintenanceCompleted, Remarks: "Lens replacement and alignment", Technician: "Tech Sharma", DurationHours: 2.5, Cost: 3200},
		{MachineID: 4, ScheduleDate: days(-2), CompletionDate: ptr(days(-2)), MaintenanceType: model.MaintenanceCorrective, Status: model.MaintenanceCompleted, Remarks: "Motor replacement and belt adjustment", Technician: "Tech Verma", DurationHours: 8, Cost: 15000},
		{MachineID: 5, ScheduleDate: days(3), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceScheduled, Remarks: "Laser calibration and mirror cleaning", Technician: "Tech Gupta", DurationHours: 5, Cost: 9200},
		{MachineID: 8, ScheduleDate: days(10), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceScheduled, Remarks: "Conveyor belt inspection and roller replacement", Technician: "Tech Joshi", DurationHours: 6, Cost: 11000},
		{MachineID: 6, ScheduleDate: today, MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceInProgress, Remarks: "Nozzle cleaning and firmware update", Technician: "Tech Malhotra", DurationHours: 3, Cost: 4500},
		{MachineID: 1, ScheduleDate: days(-30), CompletionDate: ptr(days(-30)), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceCompleted, Remarks: "Routine inspection and lubrication", Technician: "Tech Patel", DurationHours: 2, Cost: 3000},
		{MachineID: 2, ScheduleDate: days(21), MaintenanceType: model.MaintenancePreventive, Status: model.MaintenanceScheduled, Remarks: "Complete overhaul and upgrades", Technician: "Tech Reddy", DurationHours: 12, Cost: 25000},
	}

	downtime := []model.DowntimeIncident{
		{MachineID: 2, LineID: 2, StartTime: at(0, 8, 30), EndTime: at(0, 15, 0), DurationMinutes: 390, Reason: model.ReasonBreakdown, Description: "Main bearing failure requiring replacement", ReportedBy: "Supervisor A"},
		{MachineID: 4, LineID: 2, StartTime: at(-1, 10, 15), EndTime: at(-1, 18, 15), DurationMinutes: 480, Reason: model.ReasonBreakdown, Description: "Motor burnt out - emergency replacement", ReportedBy: "Supervisor B"},
		{MachineID: 1, LineID: 1, StartTime: at(-2, 14, 0), EndTime: at(-2, 16, 30), DurationMinutes: 150, Reason: model.ReasonMaterialShortage, Description: "Raw material delivery delayed due to supplier issues", ReportedBy: "Operator A"},
		{MachineID: 3, LineID: 1, StartTime: at(-3, 11, 45), EndTime: at(-3, 12, 30), DurationMinutes: 45, Reason: model.ReasonQualityCheck, Description: "Routine quality inspection and calibration", ReportedBy: "Quality Inspector"},
		{MachineID: 5, LineID: 1, StartTime: at(-4, 9, 0), EndTime: at(-4, 9, 45), DurationMinutes: 45, Reason: model.ReasonPowerOutage, Description: "Scheduled power maintenance by utility company", ReportedBy: "Facility Manager"},
		{MachineID: 7, LineID: 2, StartTime: at(-5, 13, 20), EndTime: at(-5, 15, 50), DurationMinutes: 150, Reason: model.ReasonBreakdown, Description: "Scanner lens cracked during operation", ReportedBy: "Operator C"},
		{MachineID: 8, LineID: 1, StartTime: at(-6, 16, 0), EndTime: at(-6, 17, 30), DurationMinutes: 90, Reason: model.ReasonMaintenance, Description: "Preventive maintenance - belt tension adjustment", ReportedBy: "Tech Team"},
		{MachineID: 6, LineID: 2, StartTime: at(-7, 10, 0), EndTime: at(-7, 13, 0), DurationMinutes: 180, Reason: model.ReasonMaintenance, Description: "Scheduled nozzle replacement and calibration", ReportedBy: "Tech Team"},
		{MachineID: 2, LineID: 1, StartTime: at(-8, 7, 30), EndTime: at(-8, 8, 15), DurationMinutes: 45, Reason: model.ReasonQualityCheck, Description: "Product quality validation and testing", ReportedBy: "Quality Control"},
		{MachineID: 4, LineID: 2, StartTime: at(-9, 12, 0), EndTime: at(-9, 14, 30), DurationMinutes: 150, Reason: model.ReasonMaterialShortage, Description: "Packaging material stock depletion", ReportedBy: "Logistics Manager"},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children before parents.
		for _, table := range []string{"downtime", "maintenance", "production", "machines"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		if err := tx.Create(&machines).Error; err != nil {
			return fmt.Errorf("failed to insert machines: %w", err)
		}
		if err := tx.CreateInBatches(&production, 100).Error; err != nil {
			return fmt.Errorf("failed to insert production: %w", err)
		}
		if err := tx.Create(&maintenance).Error; err != nil {
			return fmt.Errorf("failed to insert maintenance: %w", err)
		}
		if err := tx.Create(&downtime).Error; err != nil {
			return fmt.Errorf("failed to insert downtime: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}

	return SeedSummary{
		Machines:    len(machines),
		Production:  len(production),
		Maintenance: len(maintenance),
		Downtime:    len(downtime),
		From:        days(-9),
		To:          days(21),
	}, nil
}
