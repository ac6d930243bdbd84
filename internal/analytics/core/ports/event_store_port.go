package ports

import (
	"context"
	"errors"
	"time"

	"events-analytics-service/internal/analytics/core/domain"
)

// ErrNoData signals an empty event store, as opposed to a connectivity or
// query fault. Time windows cannot be anchored without at least one event.
var ErrNoData = errors.New("no event data available")

// EventStorePort is the executor contract for the builder and manual-query
// paths. The store owns the events table; this side only reads.
type EventStorePort interface {
	// MaxEventTime returns the newest created_at in the store, the anchor for
	// all relative time windows. Returns ErrNoData when the table is empty.
	MaxEventTime(ctx context.Context) (time.Time, error)

	// RunAggregation executes a built aggregation query. Row shape is fixed by
	// the builder: grouping value, event count, unique count.
	RunAggregation(ctx context.Context, sqlText string, args []any) ([]domain.GroupRow, error)

	// RunRawQuery executes a guard-approved manual query and returns rows
	// keyed by the executor's own column names.
	RunRawQuery(ctx context.Context, sqlText string) (columns []string, rows []map[string]any, err error)
}

// DashboardReaderPort serves the fixed-shape dashboard queries. Derived
// fields (averages, uptime, summaries) are computed by the use cases.
type DashboardReaderPort interface {
	OverviewCounts(ctx context.Context) (*domain.OverviewMetrics, error)
	TimelineDays(ctx context.Context) ([]domain.TimelineDay, error)
	TopRepositories(ctx context.Context, limit int) ([]domain.RepositoryStats, error)
}

// SnapshotReaderPort computes the bounded recent-window aggregation pushed to
// realtime subscribers.
type SnapshotReaderPort interface {
	RecentActivity(ctx context.Context, window domain.TimeWindow) (*domain.ActivitySnapshot, error)
}
