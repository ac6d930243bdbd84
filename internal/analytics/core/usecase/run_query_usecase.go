package usecase

import (
	"context"
	"errors"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
	"events-analytics-service/internal/analytics/core/query"
)

const (
	minQueryLimit = 1
	maxQueryLimit = 1000
)

var (
	ErrMissingEventTypes = errors.New("event_types is required")
	ErrInvalidLimit      = errors.New("limit is out of bounds")
)

type RunQueryInput struct {
	EventTypes []string
	TimeRange  string
	GroupBy    string
	SortBy     string // lenient; unknown values fall back to event_count
	Limit      int
}

type RunQueryResult struct {
	Rows   []map[string]any
	Spec   domain.QuerySpec
	Window domain.TimeWindow
}

type RunQueryUseCase struct {
	store ports.EventStorePort
}

func NewRunQueryUseCase(store ports.EventStorePort) *RunQueryUseCase {
	return &RunQueryUseCase{store: store}
}

// Execute validates the request against the schema whitelists, resolves the
// data-anchored time window, builds and runs the aggregation, and shapes the
// rows for the requested grouping. No SQL is built until every strict check
// has passed.
func (uc *RunQueryUseCase) Execute(ctx context.Context, in RunQueryInput) (*RunQueryResult, error) {
	if len(in.EventTypes) == 0 {
		return nil, ErrMissingEventTypes
	}
	if _, err := query.ResolveDimension(in.GroupBy); err != nil {
		return nil, err
	}
	if _, err := query.RangeDuration(in.TimeRange); err != nil {
		return nil, err
	}
	if in.Limit < minQueryLimit || in.Limit > maxQueryLimit {
		return nil, ErrInvalidLimit
	}

	anchor, err := uc.store.MaxEventTime(ctx)
	if err != nil {
		return nil, err
	}

	window, err := query.ResolveWindow(anchor, in.TimeRange)
	if err != nil {
		return nil, err
	}

	spec := domain.QuerySpec{
		Dimension:  in.GroupBy,
		TimeRange:  in.TimeRange,
		EventTypes: in.EventTypes,
		SortBy:     in.SortBy,
		Limit:      in.Limit,
	}

	sqlText, args, err := query.Build(spec, window)
	if err != nil {
		return nil, err
	}

	rows, err := uc.store.RunAggregation(ctx, sqlText, args)
	if err != nil {
		return nil, err
	}

	return &RunQueryResult{
		Rows:   query.FormatRows(rows, spec.Dimension),
		Spec:   spec,
		Window: window,
	}, nil
}
