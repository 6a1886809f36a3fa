package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// dateLayouts are tried in order for phrases that are not relative.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
}

// ResolveDate converts a date phrase into a concrete date anchored at now.
// "today" resolves to the current date; "tomorrow" and "yesterday" shift by
// one day. A weekday name resolves to the next occurrence of that weekday,
// and when the phrase names today's weekday it advances a full seven days
// rather than returning today. Unrecognized phrases fall through to a
// generic layout parse; on failure an InvalidValueError is returned rather
// than a silent default.
func ResolveDate(phrase string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if target, ok := weekdays[strings.TrimPrefix(strings.TrimPrefix(p, "next "), "on ")]; ok {
		offset := (int(target) - int(today.Weekday()) + 7) % 7
		if offset == 0 {
			// Naming today's weekday means the next occurrence, not today.
			offset = 7
		}
		return today.AddDate(0, 0, offset), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, phrase); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), nil
		}
	}

	return time.Time{}, &InvalidValueError{
		Field:  "date",
		Value:  phrase,
		Reason: "try a weekday name, \"today\", \"tomorrow\", or a date like 2025-06-01",
	}
}

var (
	clockPattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)?$`)
	hourAmPmPattern = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)
	bareHourPattern = regexp.MustCompile(`^(\d{1,2})$`)
)

// ResolveTime converts a time phrase into canonical 24-hour "HH:MM" form.
// 12-hour input is converted (pm adds 12 unless the hour is already 12; 12am
// maps to 00). Bare hour numbers 0-23 map to "HH:00". Input that parses as
// none of these is returned unchanged.
func ResolveTime(phrase string) string {
	p := strings.ToLower(strings.TrimSpace(phrase))

	if m := clockPattern.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return phrase
		}
		hour = to24Hour(hour, m[3])
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := hourAmPmPattern.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 12 {
			return phrase
		}
		return fmt.Sprintf("%02d:00", to24Hour(hour, m[2]))
	}

	if m := bareHourPattern.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			return fmt.Sprintf("%02d:00", hour)
		}
	}

	return phrase
}

func to24Hour(hour int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}
