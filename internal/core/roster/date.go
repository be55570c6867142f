package roster

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	minYear = 1900
	maxYear = 2100

	// Two-digit years up to this value belong to the 2000s, the rest to the 1900s.
	pivotYear = 30

	// DateLayout is the normalized output format of ParseDate.
	DateLayout = "2006-01-02"
)

var (
	yearOnlyRe = regexp.MustCompile(`^(\d{4})$`)
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})([/.\-])(\d{1,2})([/.\-])(\d{2,4})$`)
	isoRe      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	serialRe   = regexp.MustCompile(`^\d{5}(\.\d+)?$`)
)

// ParseDate interprets a birth date written as YYYY, D/M/YYYY, D/M/YY
// (also with '-' or '.' separators), YYYY-MM-DD, or an Excel serial day
// number. Year-only values resolve to January 1st. The result is a UTC
// midnight; ok is false for anything that is not a real calendar day
// between 1900 and 2100.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := yearOnlyRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year < minYear || year > maxYear {
			return time.Time{}, false
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return calendarDate(year, month, day)
	}

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		if m[2] != m[4] {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[3])
		year, _ := strconv.Atoi(m[5])
		if year < 100 {
			if year <= pivotYear {
				year += 2000
			} else {
				year += 1900
			}
		}
		return calendarDate(year, month, day)
	}

	if serialRe.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return calendarDate(t.Year(), int(t.Month()), t.Day())
	}

	return time.Time{}, false
}

// calendarDate validates the components and rejects days that do not exist
// (31 February, 31 April...).
func calendarDate(year, month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear || year > maxYear {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
