package query

import (
	"events-analytics-service/internal/analytics/core/domain"
)

// weekdays is indexed by the 1-based day number the "day" dimension produces.
var weekdays = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// FormatRows shapes aggregated rows into response records for the requested
// grouping. Values arrive already aggregated; no math happens here.
func FormatRows(rows []domain.GroupRow, groupBy string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		rec := map[string]any{
			"event_count":  row.EventCount,
			"unique_count": row.UniqueCount,
		}

		switch groupBy {
		case "hour":
			rec["hour"] = asInt(row.Value)
		case "day":
			rec["day"] = weekdayName(row.Value)
		default:
			rec[groupBy] = row.Value
		}

		out = append(out, rec)
	}

	return out
}

func weekdayName(v any) string {
	n, ok := asIntOK(v)
	if !ok || n < 1 || n > 7 {
		return "Unknown"
	}
	return weekdays[n]
}

func asInt(v any) int {
	n, _ := asIntOK(v)
	return n
}

// asIntOK normalizes the numeric types drivers hand back for extraction
// expressions.
func asIntOK(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case []byte:
		// lib/pq returns numerics as text for some expressions
		i := 0
		if len(n) == 0 {
			return 0, false
		}
		for _, c := range n {
			if c < '0' || c > '9' {
				return 0, false
			}
			i = i*10 + int(c-'0')
		}
		return i, true
	default:
		return 0, false
	}
}
