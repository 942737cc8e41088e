package model

import "time"

// DateLayout is the rendering of calendar dates in replies.
const DateLayout = "2006-01-02"

// Day returns the civil date of t as midnight UTC. All date columns are
// written and compared in this form.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a stored date column.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FormatOptionalDate renders a nullable date column, "None" when unset.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return FormatDate(*t)
}
