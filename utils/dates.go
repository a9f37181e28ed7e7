package utils

import (
	"fmt"
	"regexp"
	"time"
)

var mmddyyyyRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// Layouts accepted for date input besides MM/DD/YYYY. Stored dates are
// always normalized before they hit the database.
var fallbackLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// IsDateInput reports whether s looks like a user-facing MM/DD/YYYY date.
func IsDateInput(s string) bool {
	return mmddyyyyRe.MatchString(s)
}

// NormalizeDate converts a date in any accepted format to zero-padded
// MM/DD/YYYY. Unparseable input is an error.
func NormalizeDate(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	if mmddyyyyRe.MatchString(s) {
		t, err := time.Parse("1/2/2006", s)
		if err != nil {
			return "", fmt.Errorf("invalid date %q: %w", s, err)
		}
		return t.Format("01/02/2006"), nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("01/02/2006"), nil
		}
	}

	return "", fmt.Errorf("invalid date %q", s)
}

// MonthDay extracts the month and day from a stored MM/DD/YYYY date.
// ok is false when the stored value cannot be parsed.
func MonthDay(s string) (month, day int, ok bool) {
	if !mmddyyyyRe.MatchString(s) {
		return 0, 0, false
	}
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return 0, 0, false
	}
	return int(t.Month()), t.Day(), true
}
