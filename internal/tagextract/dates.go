package tagextract

import (
	"fmt"
	"regexp"
	"strconv"
)

// dateRe matches a YYYY[-/.MM[-/.DD]] prefix; anything after the match
// (e.g. a time-of-day suffix) is ignored, per the "leading prefix" rule.
var dateRe = regexp.MustCompile(`^(\d{4})(?:[-/.](\d{2})(?:[-/.](\d{2}))?)?`)

// ParseDate accepts YYYY, YYYY-MM, YYYY-MM-DD and the "/" and "." variants,
// plus longer strings that begin with one of those forms. Empty input
// yields a zero DateParts; any non-empty string that doesn't begin with a
// recognized date is an error, as is an out-of-range month or day.
func ParseDate(s string) (DateParts, error) {
	if s == "" {
		return DateParts{}, nil
	}
	m := dateRe.FindStringSubmatch(s)
	if m == nil || m[0] == "" {
		return DateParts{}, fmt.Errorf("unrecognized date: %q", s)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return DateParts{}, fmt.Errorf("unrecognized date: %q", s)
	}
	d := DateParts{Year: &year}
	if m[2] != "" {
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return DateParts{}, fmt.Errorf("invalid month in date: %q", s)
		}
		d.Month = &month
	}
	if m[3] != "" {
		day, _ := strconv.Atoi(m[3])
		if day < 1 || day > 31 {
			return DateParts{}, fmt.Errorf("invalid day in date: %q", s)
		}
		d.Day = &day
	}
	return d, nil
}
