package blogkit

import (
	"strconv"
	"strings"
)

// MonthNames is a 1-indexed month lookup table; index 0 is unused.
type MonthNames [13]string

// MonthPlaceholder is emitted when a date's month is not in 1..12.
const MonthPlaceholder = "?"

// DefaultDate is assumed when no date is given.
const DefaultDate = "1970-01-01"

var (
	EnglishMonths = MonthNames{"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	ArabicMonths = MonthNames{"", "يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
		"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}
)

// MonthsFor returns the month table for a locale code. Unknown codes get English.
func MonthsFor(locale string) MonthNames {
	if strings.EqualFold(locale, "ar") {
		return ArabicMonths
	}
	return EnglishMonths
}

// NormalizeDate converts "YYYY-MM-DD" to "<day> <month>, <year>".
//
// The year is copied verbatim. A month outside 1..12 (or not a number)
// becomes MonthPlaceholder; a day without leading digits is copied as is.
func NormalizeDate(date string, months MonthNames) string {
	if strings.TrimSpace(date) == "" {
		date = DefaultDate
	}
	parts := strings.SplitN(date, "-", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	year, month, day := parts[0], parts[1], parts[2]

	monthName := MonthPlaceholder
	if m, ok := leadingInt(month); ok && m >= 1 && m <= 12 {
		monthName = months[m]
	}
	dayText := day
	if d, ok := leadingInt(day); ok {
		dayText = strconv.Itoa(d)
	}
	return dayText + " " + monthName + ", " + year
}

// leadingInt parses the run of ASCII digits at the start of s.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
