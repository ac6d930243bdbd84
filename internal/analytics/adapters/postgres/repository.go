package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// EventStoreRepository reads the append-only events table. It implements the
// executor, dashboard and snapshot ports.
type EventStoreRepository struct {
	db DB
}

func NewEventStoreRepository(db DB) *EventStoreRepository {
	return &EventStoreRepository{db: db}
}

func (r *EventStoreRepository) MaxEventTime(ctx context.Context) (time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT MAX(created_at) FROM events`)
	if err != nil {
		return time.Time{}, err
	}
	defer rows.Close()

	var max sql.NullTime
	if rows.Next() {
		if err := rows.Scan(&max); err != nil {
			return time.Time{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, err
	}

	if !max.Valid {
		return time.Time{}, ports.ErrNoData
	}
	return max.Time.UTC(), nil
}

func (r *EventStoreRepository) RunAggregation(ctx context.Context, sqlText string, args []any) ([]domain.GroupRow, error) {
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GroupRow
	for rows.Next() {
		var row domain.GroupRow
		if err := rows.Scan(&row.Value, &row.EventCount, &row.UniqueCount); err != nil {
			return nil, err
		}
		row.Value = normalizeValue(row.Value)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *EventStoreRepository) RunRawQuery(ctx context.Context, sqlText string) ([]string, []map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, nil, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, out, nil
}

func (r *EventStoreRepository) OverviewCounts(ctx context.Context) (*domain.OverviewMetrics, error) {
	m := &domain.OverviewMetrics{}

	rows, err := r.db.QueryContext(ctx, `
SELECT
    COUNT(*) AS total_events,
    COUNT(DISTINCT actor_id) AS unique_users,
    COUNT(DISTINCT repo_name) AS unique_repos,
    COUNT(DISTINCT DATE(created_at)) AS operational_days
FROM events`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&m.TotalEvents, &m.UniqueUsers, &m.UniqueRepos, &m.DaysOperational); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	peakRows, err := r.db.QueryContext(ctx, `
SELECT COALESCE(MAX(daily_events), 0) AS peak_daily_events
FROM (
    SELECT COUNT(*) AS daily_events
    FROM events
    GROUP BY DATE(created_at)
) d`)
	if err != nil {
		return nil, err
	}
	defer peakRows.Close()

	if peakRows.Next() {
		if err := peakRows.Scan(&m.PeakDailyEvents); err != nil {
			return nil, err
		}
	}
	if err := peakRows.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *EventStoreRepository) TimelineDays(ctx context.Context) ([]domain.TimelineDay, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
    DATE(created_at) AS activity_date,
    COUNT(*) AS total_events,
    COUNT(DISTINCT actor_id) AS unique_users,
    COUNT(DISTINCT repo_name) AS unique_repos,
    COUNT(*) FILTER (WHERE event_type = 'PushEvent') AS push_events,
    COUNT(*) FILTER (WHERE event_type = 'PullRequestEvent') AS pull_request_events,
    COUNT(*) FILTER (WHERE event_type = 'IssuesEvent') AS issue_events,
    COUNT(*) FILTER (WHERE event_type = 'CreateEvent') AS create_events
FROM events
GROUP BY DATE(created_at)
ORDER BY activity_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.TimelineDay
	for rows.Next() {
		var d domain.TimelineDay
		if err := rows.Scan(&d.Date, &d.TotalEvents, &d.UniqueUsers, &d.UniqueRepos,
			&d.PushEvents, &d.PullRequestEvents, &d.IssueEvents, &d.CreateEvents); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func (r *EventStoreRepository) TopRepositories(ctx context.Context, limit int) ([]domain.RepositoryStats, error) {
	// limit bounds are enforced by the use case; it is interpolated because
	// Postgres cannot plan LIMIT $n as well for this query shape.
	query := fmt.Sprintf(`
SELECT
    repo_name,
    COUNT(*) AS total_activity,
    COUNT(DISTINCT actor_id) AS unique_contributors,
    COUNT(*) FILTER (WHERE event_type = 'PushEvent') AS push_events,
    COUNT(*) FILTER (WHERE event_type = 'PullRequestEvent') AS pull_request_events,
    COUNT(*) FILTER (WHERE event_type = 'IssuesEvent') AS issue_events,
    COUNT(*) FILTER (WHERE event_type = 'CreateEvent') AS create_events,
    COUNT(*) FILTER (WHERE event_type = 'WatchEvent') AS watch_events,
    ROUND(COUNT(*)::numeric / NULLIF(COUNT(DISTINCT actor_id), 0), 2) AS activity_per_contributor,
    MIN(created_at) AS first_activity,
    MAX(created_at) AS last_activity
FROM events
WHERE repo_name IS NOT NULL
GROUP BY repo_name
ORDER BY total_activity DESC
LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []domain.RepositoryStats
	for rows.Next() {
		var rs domain.RepositoryStats
		var perContributor sql.NullFloat64
		if err := rows.Scan(&rs.RepoName, &rs.TotalActivity, &rs.UniqueContributors,
			&rs.PushEvents, &rs.PullRequestEvents, &rs.IssueEvents, &rs.CreateEvents,
			&rs.WatchEvents, &perContributor, &rs.FirstActivity, &rs.LastActivity); err != nil {
			return nil, err
		}
		rs.ActivityPerContributor = perContributor.Float64
		repos = append(repos, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return repos, nil
}

func (r *EventStoreRepository) RecentActivity(ctx context.Context, window domain.TimeWindow) (*domain.ActivitySnapshot, error) {
	snap := &domain.ActivitySnapshot{
		WindowStart: window.LowerBound,
		WindowEnd:   window.Anchor,
	}

	totalRows, err := r.db.QueryContext(ctx,
		`SELECT COUNT(*) FROM events WHERE created_at >= $1`, window.LowerBound)
	if err != nil {
		return nil, err
	}
	defer totalRows.Close()
	if totalRows.Next() {
		if err := totalRows.Scan(&snap.TotalEvents); err != nil {
			return nil, err
		}
	}
	if err := totalRows.Err(); err != nil {
		return nil, err
	}

	if snap.ByDate, err = r.queryBuckets(ctx, `
SELECT DATE(created_at)::text AS bucket, COUNT(*) AS event_count, COUNT(DISTINCT actor_id) AS unique_users
FROM events
WHERE created_at >= $1
GROUP BY bucket
ORDER BY bucket`, window.LowerBound); err != nil {
		return nil, err
	}

	if snap.ByType, err = r.queryBuckets(ctx, `
SELECT event_type AS bucket, COUNT(*) AS event_count, COUNT(DISTINCT actor_id) AS unique_users
FROM events
WHERE created_at >= $1
GROUP BY bucket
ORDER BY event_count DESC`, window.LowerBound); err != nil {
		return nil, err
	}

	if snap.ByHour, err = r.queryBuckets(ctx, `
SELECT EXTRACT(HOUR FROM created_at)::int::text AS bucket, COUNT(*) AS event_count, COUNT(DISTINCT actor_id) AS unique_users
FROM events
WHERE created_at >= $1
GROUP BY bucket
ORDER BY bucket::int`, window.LowerBound); err != nil {
		return nil, err
	}

	if snap.TopRepositories, err = r.queryBuckets(ctx, `
SELECT repo_name AS bucket, COUNT(*) AS event_count, COUNT(DISTINCT actor_id) AS unique_users
FROM events
WHERE created_at >= $1 AND repo_name IS NOT NULL
GROUP BY bucket
ORDER BY event_count DESC
LIMIT 5`, window.LowerBound); err != nil {
		return nil, err
	}

	return snap, nil
}

func (r *EventStoreRepository) queryBuckets(ctx context.Context, query string, args ...any) ([]domain.SnapshotBucket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []domain.SnapshotBucket
	for rows.Next() {
		var b domain.SnapshotBucket
		if err := rows.Scan(&b.Key, &b.EventCount, &b.UniqueUsers); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buckets, nil
}

// normalizeValue makes driver-returned values JSON-friendly: lib/pq hands
// back []byte for text and numeric columns.
func normalizeValue(v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
