package catalog

import (
	"math"
	"strconv"
	"strings"
)

// parseCount converts engagement strings from the backend feed into numbers:
// "8.1k" -> 8100, "1.2M" -> 1200000, "10,695 votes" -> 10695, "279" -> 279.
// Plain numeric JSON values are accepted as-is. Anything unparseable is 0.
func parseCount(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case string:
		return parseCountString(n)
	default:
		return 0
	}
}

func parseCountString(s string) int64 {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, " votes")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	mult := float64(1)
	switch s[len(s)-1] {
	case 'k':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm':
		mult = 1_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * mult))
}

// parseDurationSeconds converts a feed duration into whole seconds.
// Accepted forms: "MM:SS" (e.g. "12:34"), "8 min", "37 sec".
// Unrecognized input yields 0.
func parseDurationSeconds(s string) int {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0
		}
		mins, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		secs, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return 0
		}
		return mins*60 + secs
	}

	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	switch {
	case strings.HasPrefix(fields[1], "min"):
		return value * 60
	case strings.HasPrefix(fields[1], "sec"):
		return value
	}
	return 0
}

// idString normalizes a feed id, which may arrive as a JSON string or number.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}
