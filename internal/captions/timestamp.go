package captions

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTimestamp converts HH:MM:SS,mmm (or with a period separator) to
// milliseconds. When allowShort is set MM:SS.mmm is accepted too.
func parseTimestamp(value string, allowShort bool) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize period to comma so both separators split the same way
	normalized := strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(normalized, ",")
	if len(timeParts) != 2 || len(timeParts[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) == 2 && allowShort {
		hms = append([]string{"0"}, hms...)
	}
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := parseDigits(hms[0], 0)
	minutes, errM := parseDigits(hms[1], 2)
	seconds, errS := parseDigits(hms[2], 2)
	millis, errMS := parseDigits(timeParts[1], 3)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes >= 60 || seconds >= 60 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// parseDigits parses an unsigned decimal. A non-zero width requires exactly
// that many digits.
func parseDigits(value string, width int) (uint64, error) {
	if value == "" || (width > 0 && len(value) != width) {
		return 0, fmt.Errorf("invalid field %q", value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid field %q", value)
		}
	}
	return strconv.ParseUint(value, 10, 32)
}

// parseTiming splits a "start --> end [settings]" line.
func parseTiming(line string, allowShort bool) (uint64, uint64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing --> separator")
	}
	start, err := parseTimestamp(parts[0], allowShort)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("end: empty timestamp")
	}
	end, err := parseTimestamp(endFields[0], allowShort)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("end %s before start %s", FormatTimestamp(end, ','), FormatTimestamp(start, ','))
	}
	return start, end, nil
}

// FormatTimestamp renders milliseconds as HH:MM:SS followed by sep and the
// millisecond field.
func FormatTimestamp(ms uint64, sep byte) string {
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}
