package domain

import "time"

// OverviewMetrics is the headline dashboard block.
type OverviewMetrics struct {
	TotalEvents     int64
	UniqueUsers     int64
	UniqueRepos     int64
	PeakDailyEvents int64
	DaysOperational int64

	AvgEventsPerDay float64
	Uptime          float64
}

// TimelineDay is one day of activity with per-type breakdowns.
type TimelineDay struct {
	Date              time.Time
	TotalEvents       int64
	UniqueUsers       int64
	UniqueRepos       int64
	PushEvents        int64
	PullRequestEvents int64
	IssueEvents       int64
	CreateEvents      int64
}

// Timeline is the full daily series plus its summary block.
type Timeline struct {
	Days            []TimelineDay
	TotalEvents     int64
	AvgEventsPerDay float64
	PeakDay         *TimelineDay
}

// RepositoryStats is one entry of the top-repositories dashboard.
type RepositoryStats struct {
	RepoName               string
	TotalActivity          int64
	UniqueContributors     int64
	PushEvents             int64
	PullRequestEvents      int64
	IssueEvents            int64
	CreateEvents           int64
	WatchEvents            int64
	ActivityPerContributor float64
	FirstActivity          time.Time
	LastActivity           time.Time
}

// Categories derives the activity categories shown next to a repository.
func (r RepositoryStats) Categories() []string {
	cats := []string{}
	if r.PushEvents > 0 {
		cats = append(cats, "Development")
	}
	if r.PullRequestEvents > 0 {
		cats = append(cats, "Collaboration")
	}
	if r.IssueEvents > 0 {
		cats = append(cats, "Issue Management")
	}
	if r.WatchEvents > 0 {
		cats = append(cats, "Community")
	}
	return cats
}

// IsActive marks repositories above the activity threshold used by the UI.
func (r RepositoryStats) IsActive() bool {
	return r.TotalActivity > 10
}

// SnapshotBucket is one group of the broadcast snapshot aggregations.
type SnapshotBucket struct {
	Key         string
	EventCount  int64
	UniqueUsers int64
}

// ActivitySnapshot is what the broadcast loop pushes to subscribers each tick:
// a fixed recent window of the store, grouped a few ways at once.
type ActivitySnapshot struct {
	WindowStart     time.Time
	WindowEnd       time.Time
	TotalEvents     int64
	ByDate          []SnapshotBucket
	ByType          []SnapshotBucket
	ByHour          []SnapshotBucket
	TopRepositories []SnapshotBucket
}
