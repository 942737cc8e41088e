package chatbot

import "strings"

// Intent is one of the fixed query categories a message can express.
type Intent string

const (
	IntentTodayProduction Intent = "today-production"
	IntentMaintenanceList Intent = "maintenance-list"
	IntentDowntimeByLine  Intent = "downtime-by-line"
	IntentMachineStatus   Intent = "machine-status"
	IntentHelp            Intent = "help"
	IntentFallback        Intent = "fallback"
)

type rule struct {
	intent Intent
	match  func(message string) bool
}

// rules are evaluated top to bottom and the first match wins, so a message
// naming several topics resolves to the earliest one.
var rules = []rule{
	{IntentTodayProduction, containsAll("today", "production")},
	{IntentMaintenanceList, containsAny("maintenance")},
	{IntentDowntimeByLine, containsAll("downtime", "line")},
	{IntentMachineStatus, containsAny("status", "machine")},
	{IntentHelp, containsAny("help")},
}

// Normalize lower-cases a raw message before matching.
func Normalize(message string) string {
	return strings.ToLower(message)
}

// Classify returns the intent of a normalized message. Matching is by
// substring, so "maintenance" also catches "under maintenance".
func Classify(message string) Intent {
	for _, r := range rules {
		if r.match(message) {
			return r.intent
		}
	}
	return IntentFallback
}

func containsAll(keywords ...string) func(string) bool {
	return func(message string) bool {
		for _, k := range keywords {
			if !strings.Contains(message, k) {
				return false
			}
		}
		return true
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(message string) bool {
		for _, k := range keywords {
			if strings.Contains(message, k) {
				return true
			}
		}
		return false
	}
}
