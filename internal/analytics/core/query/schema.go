package query

import (
	"errors"
	"time"
)

var (
	ErrUnknownDimension = errors.New("unknown group_by dimension")
	ErrInvalidTimeRange = errors.New("invalid time_range value")
)

// dimensions maps every public grouping key to the column or extraction
// expression that implements it. This table is the single trust boundary for
// dynamic SQL: anything that ends up in a structural position of a query must
// come from here, never from caller input.
var dimensions = map[string]string{
	"repository": "repo_name",
	"user":       "actor_id",
	"event_type": "event_type",
	"language":   "language",
	"hour":       "EXTRACT(HOUR FROM created_at)::int",
	"day":        "EXTRACT(DOW FROM created_at)::int + 1", // 1 = Sunday .. 7 = Saturday
}

// sortOrders maps sort tokens to ORDER BY clauses over the aliases every
// built query selects.
var sortOrders = map[string]string{
	"event_count":  "event_count DESC",
	"unique_count": "unique_count DESC",
}

const defaultSortOrder = "event_count DESC"

// timeRanges maps range tokens to their durations.
var timeRanges = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// ResolveDimension returns the SQL expression for a grouping key. Strict:
// unknown names are an error, never a fallback.
func ResolveDimension(name string) (string, error) {
	expr, ok := dimensions[name]
	if !ok {
		return "", ErrUnknownDimension
	}
	return expr, nil
}

// ResolveSort returns the ORDER BY clause for a sort token. Lenient by
// contract: anything unrecognized falls back to event count descending.
func ResolveSort(name string) string {
	if order, ok := sortOrders[name]; ok {
		return order
	}
	return defaultSortOrder
}

// RangeDuration returns the duration of a time-range token.
func RangeDuration(token string) (time.Duration, error) {
	d, ok := timeRanges[token]
	if !ok {
		return 0, ErrInvalidTimeRange
	}
	return d, nil
}
