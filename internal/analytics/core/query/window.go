package query

import (
	"time"

	"events-analytics-service/internal/analytics/core/domain"
)

// ResolveWindow anchors a symbolic time range to the newest observed event.
// The anchor comes from the store (MAX(created_at)), never from time.Now():
// the dataset is batch-loaded and the window has to track the data, not the
// clock.
func ResolveWindow(anchor time.Time, rangeToken string) (domain.TimeWindow, error) {
	d, err := RangeDuration(rangeToken)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return domain.TimeWindow{
		Anchor:     anchor,
		LowerBound: anchor.Add(-d),
	}, nil
}
