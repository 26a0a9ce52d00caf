package voting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"earlyvote/internal/errors"
)

// DaySequence is the ordered list of reporting day labels ("Oct-4", "Oct-5", ...)
// the dashboard reads. It is configuration, not derived from the workbook.
type DaySequence []string

// labelYear is a leap year so Feb-29 labels parse.
const labelYear = 2020

// ParseDaySequence parses a comma separated list whose items are either a
// single label ("Oct-4") or an inclusive range ("Oct-4..Oct-26").
func ParseDaySequence(expr string) (DaySequence, error) {
	var days DaySequence
	for _, item := range strings.Split(expr, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		from, to, isRange := strings.Cut(item, "..")
		if !isRange {
			if _, err := parseDayLabel(item); err != nil {
				return nil, err
			}
			days = append(days, item)
			continue
		}
		span, err := expandRange(strings.TrimSpace(from), strings.TrimSpace(to))
		if err != nil {
			return nil, err
		}
		days = append(days, span...)
	}
	if len(days) == 0 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("no reporting days in %q", expr))
	}
	return days, nil
}

func expandRange(from, to string) (DaySequence, error) {
	start, err := parseDayLabel(from)
	if err != nil {
		return nil, err
	}
	end, err := parseDayLabel(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.ConfigInvalid(fmt.Sprintf("day range %s..%s runs backwards", from, to))
	}
	var days DaySequence
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDayLabel(d))
	}
	return days, nil
}

// parseDayLabel accepts "<Mon>-<day>" with a three letter month abbreviation.
func parseDayLabel(label string) (time.Time, error) {
	mon, dayStr, ok := strings.Cut(label, "-")
	if !ok {
		return time.Time{}, errors.ConfigInvalid(fmt.Sprintf("day label %q is not <Mon>-<day>", label))
	}
	month, err := time.Parse("Jan", mon)
	if err != nil {
		return time.Time{}, errors.ConfigInvalid(fmt.Sprintf("day label %q has unknown month %q", label, mon))
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, errors.ConfigInvalid(fmt.Sprintf("day label %q has invalid day %q", label, dayStr))
	}
	t := time.Date(labelYear, month.Month(), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, errors.ConfigInvalid(fmt.Sprintf("day label %q does not exist", label))
	}
	return t, nil
}

// FormatDayLabel renders t the way sheets are named, e.g. "Oct-4".
func FormatDayLabel(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.Format("Jan"), t.Day())
}
