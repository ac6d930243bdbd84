package domain

import "time"

// QuerySpec is a validated aggregation request. Instances are built only by the
// run-query use case after whitelist validation; Dimension, TimeRange and SortBy
// are always members of the schema whitelists by the time a spec exists.
type QuerySpec struct {
	Dimension  string
	TimeRange  string
	EventTypes []string // contains "all" when no event-type filter applies
	SortBy     string
	Limit      int
}

// FiltersAll reports whether the spec carries the "all" sentinel, meaning the
// event-type predicate is omitted entirely.
func (s QuerySpec) FiltersAll() bool {
	for _, t := range s.EventTypes {
		if t == "all" {
			return true
		}
	}
	return false
}

// TimeWindow is a resolved time range, anchored to the newest event in the
// store rather than wall-clock time. The dataset is batch-loaded and possibly
// stale, so "last 7 days" means the 7 days before the last load.
type TimeWindow struct {
	Anchor     time.Time
	LowerBound time.Time
}

// GroupRow is one aggregated row: the grouping key plus the two counters every
// built query selects.
type GroupRow struct {
	Value       any
	EventCount  int64
	UniqueCount int64
}
