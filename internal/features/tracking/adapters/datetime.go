package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02T15:04:05"

// normalizeDateTime converts the portal's free-form date text into the
// canonical YYYY-MM-DDTHH:MM:00 form. The grammar is day-first with "/" or
// "-" separators, an optional HH:MM time, and an optional AM/PM marker.
// On any input it cannot read, it returns the original text and false; the
// caller decides whether to log.
func normalizeDateTime(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "->", ""))
	if s == "" {
		return raw, false
	}

	fields := strings.Fields(s)
	datePart := fields[0]
	timePart := "00:00"
	meridiem := ""
	if len(fields) >= 2 {
		timePart = fields[1]
	}
	if len(fields) >= 3 {
		meridiem = fields[2]
	}

	var sep string
	switch {
	case strings.Contains(datePart, "/"):
		sep = "/"
	case strings.Contains(datePart, "-"):
		sep = "-"
	default:
		// No recognizable separator: fail closed rather than guess.
		return raw, false
	}

	dateTokens := strings.Split(datePart, sep)
	if len(dateTokens) != 3 {
		return raw, false
	}

	day, err := strconv.Atoi(dateTokens[0])
	if err != nil {
		return raw, false
	}
	month, err := strconv.Atoi(dateTokens[1])
	if err != nil {
		return raw, false
	}
	year := dateTokens[2]
	if len(year) == 2 {
		// The portal emits 2-digit years; this rule only holds for 2000-2099.
		year = "20" + year
	}

	timeTokens := strings.Split(timePart, ":")
	if len(timeTokens) < 2 {
		return raw, false
	}
	hour, err := strconv.Atoi(timeTokens[0])
	if err != nil {
		return raw, false
	}
	minute, err := strconv.Atoi(timeTokens[1])
	if err != nil {
		return raw, false
	}

	switch strings.ToUpper(meridiem) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	formatted := fmt.Sprintf("%s-%02d-%02dT%02d:%02d:00", year, month, day, hour, minute)
	if _, err := time.Parse(canonicalLayout, formatted); err != nil {
		return raw, false
	}
	return formatted, true
}
