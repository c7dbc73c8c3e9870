// Package dateutils provides the date extraction used on notification text and
// the date helpers shared by the ledger and the CLI.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layout constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutDash     = "02-01-2006"
	DateLayoutSlash    = "02/01/2006"
	DateLayoutDot      = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthLayout        = "2006-01"
	TimestampLayoutISO = time.RFC3339
)

// CommonFormats is the list of formats accepted for user-entered dates.
var CommonFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	DateLayoutFull,
	DateLayoutDash,
	DateLayoutSlash,
	DateLayoutDot,
}

// datePatterns capture day, month and year, tried in order.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`),
	regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`),
	regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`),
	regexp.MustCompile(`(?i)on\s+(\d{2})-(\d{2})-(\d{4})`),
	regexp.MustCompile(`(?i)on\s+(\d{2})/(\d{2})/(\d{4})`),
}

var whitespace = regexp.MustCompile(`\s+`)

// ExtractDate returns the first valid DD-MM-YYYY, DD/MM/YYYY or DD.MM.YYYY
// date found in text, at midnight in fallback's location. Candidates that
// are not calendar dates (31-02-2024) are skipped. When nothing valid is
// found, fallback is returned.
func ExtractDate(text string, fallback time.Time) time.Time {
	loc := fallback.Location()
	for _, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if date, ok := calendarDate(m[1], m[2], m[3], loc); ok {
				return date
			}
		}
	}
	return fallback
}

func calendarDate(dayStr, monthStr, yearStr string, loc *time.Location) (time.Time, bool) {
	day, err1 := strconv.Atoi(dayStr)
	month, err2 := strconv.Atoi(monthStr)
	year, err3 := strconv.Atoi(yearStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow, so 31-02 comes back as March.
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}
	return date, true
}

// ParseDate parses a user-entered date in one of CommonFormats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthKey returns the "YYYY-MM" key of date in its own location.
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// ParseMonth validates a "YYYY-MM" key and returns the first instant of
// that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return t, nil
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// CompareDates compares the calendar days of two dates and returns:
//
//	-1 if date1 is before date2
//	 0 if date1 is equal to date2
//	 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	date1 = time.Date(date1.Year(), date1.Month(), date1.Day(), 0, 0, 0, 0, time.UTC)
	date2 = time.Date(date2.Year(), date2.Month(), date2.Day(), 0, 0, 0, 0, time.UTC)

	if date1.Before(date2) {
		return -1
	} else if date1.After(date2) {
		return 1
	} else {
		return 0
	}
}

// IsFutureDay reports whether date falls on a later calendar day than now,
// both read in now's location.
func IsFutureDay(date, now time.Time) bool {
	return CompareDates(date.In(now.Location()), now) > 0
}
