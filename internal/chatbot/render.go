package chatbot

import (
	"fmt"
	"strings"

	"factory-chatbot-backend/internal/model"
	"factory-chatbot-backend/internal/store"
)

const (
	noProductionTodayText = "No production data found for today."
	noMaintenanceText     = "No machines currently under maintenance."
	noMachinesText        = "No machine data found."
	lineClarificationText = "Please specify which line (e.g., 'Line 1')"
	dbUnavailableText     = "❌ Database connection error. Please check if the database is running and the schema is set up."
	internalErrorText     = "❌ Error processing request."

	helpText = `🤖 Available Commands:
• "Show today's production" - Get today's production data
• "List machines under maintenance" - View maintenance schedule
• "Show downtime report for Line X" - Get downtime history
• "Machine status" - Check all machine status
• "Help" - Show this help message`

	fallbackText = "I'm not sure I understand. Try asking about:\n" +
		"• Production data\n" +
		"• Maintenance schedules\n" +
		"• Downtime reports\n" +
		"• Machine status\n\n" +
		"Type 'help' for all available commands."
)

func renderTodayProduction(rows []store.LineOutput) string {
	if len(rows) == 0 {
		return noProductionTodayText
	}
	lines := []string{"📊 Today's Production:"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("Line %d: %d units, Downtime: %d min", r.LineID, r.OutputUnits, r.DowntimeMinutes))
	}
	return strings.Join(lines, "\n")
}

func renderMaintenance(rows []store.MaintenanceRow) string {
	if len(rows) == 0 {
		return noMaintenanceText
	}
	lines := []string{"🔧 Machines Under Maintenance:"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("• %s - Status: %s", r.Name, r.Status))
		if r.ScheduleDate != nil {
			remarks := "None"
			if r.Remarks != nil {
				remarks = *r.Remarks
			}
			lines = append(lines, fmt.Sprintf("  Scheduled: %s - %s", model.FormatDate(*r.ScheduleDate), remarks))
		}
	}
	return strings.Join(lines, "\n")
}

func renderLineDowntime(lineID int, rows []store.LineDowntime) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No downtime data found for Line %d.", lineID)
	}
	lines := []string{fmt.Sprintf("⏱️ Downtime Report for Line %d:", lineID)}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("• %s: %d minutes", model.FormatDate(r.Date), r.DowntimeMinutes))
	}
	return strings.Join(lines, "\n")
}

func renderMachineStatus(machines []model.Machine) string {
	if len(machines) == 0 {
		return noMachinesText
	}
	lines := []string{"🏭 Machine Status:"}
	for _, m := range machines {
		lines = append(lines, fmt.Sprintf("%s %s: %s (Last Maintenance: %s)",
			statusIcon(m.Status), m.Name, m.Status, model.FormatOptionalDate(m.LastMaintenance)))
	}
	return strings.Join(lines, "\n")
}

func statusIcon(status model.MachineStatus) string {
	switch status {
	case model.MachineRunning:
		return "🟢"
	case model.MachineStopped:
		return "🔴"
	default:
		return "🟡"
	}
}

func renderAlert(lineID, downtimeMinutes int) string {
	return fmt.Sprintf("🚨 ALERT: Line %d has %d minutes downtime today!", lineID, downtimeMinutes)
}
