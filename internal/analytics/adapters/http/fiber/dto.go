package fiber

// QueryEcho mirrors the five query-builder parameters back to the caller.
type QueryEcho struct {
	EventTypes []string `json:"eventTypes"`
	TimeRange  string   `json:"timeRange"`
	GroupBy    string   `json:"groupBy"`
	Limit      int      `json:"limit"`
	SortBy     string   `json:"sortBy"`
}

type QueryMetadata struct {
	ResultCount int    `json:"resultCount"`
	ExecutedAt  string `json:"executedAt"`
}

type QueryExecutorResponse struct {
	Success  bool             `json:"success"`
	Data     []map[string]any `json:"data"`
	Query    QueryEcho        `json:"query"`
	Metadata QueryMetadata    `json:"metadata"`
}

// ManualQueryRequest carries one raw read-only query.
// @Description Manual SQL query payload
type ManualQueryRequest struct {
	Query string `json:"query"`
}

type ManualQueryMetadata struct {
	Query       string `json:"query"`
	QueryID     string `json:"queryId"`
	ResultCount int    `json:"resultCount"`
	ExecutedAt  string `json:"executedAt"`
}

type ManualQueryResponse struct {
	Success  bool                `json:"success"`
	Data     []map[string]any    `json:"data"`
	Metadata ManualQueryMetadata `json:"metadata"`
}

// DashboardResponse is the envelope shared by the fixed dashboard endpoints.
type DashboardResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	QueryTime string `json:"queryTime"`
}

type OverviewMetricsDTO struct {
	TotalEvents     int64   `json:"totalEvents"`
	UniqueUsers     int64   `json:"uniqueUsers"`
	UniqueRepos     int64   `json:"uniqueRepos"`
	PeakDailyEvents int64   `json:"peakDailyEvents"`
	DaysOperational int64   `json:"daysOperational"`
	AvgEventsPerDay float64 `json:"avgEventsPerDay"`
	Uptime          float64 `json:"uptime"`
}

type TimelineDayDTO struct {
	Date              string `json:"date"`
	TotalEvents       int64  `json:"totalEvents"`
	UniqueUsers       int64  `json:"uniqueUsers"`
	UniqueRepos       int64  `json:"uniqueRepositories"`
	PushEvents        int64  `json:"pushEvents"`
	PullRequestEvents int64  `json:"pullRequestEvents"`
	IssueEvents       int64  `json:"issueEvents"`
	CreateEvents      int64  `json:"createEvents"`
}

type DateRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TimelineSummaryDTO struct {
	TotalEvents     int64           `json:"totalEvents"`
	AvgEventsPerDay float64         `json:"avgEventsPerDay"`
	PeakDay         *TimelineDayDTO `json:"peakDay"`
}

type TimelineDTO struct {
	Timeline  []TimelineDayDTO   `json:"timeline"`
	TotalDays int                `json:"totalDays"`
	DateRange DateRangeDTO       `json:"dateRange"`
	Summary   TimelineSummaryDTO `json:"summary"`
}

type RepositoryDTO struct {
	RepoName               string   `json:"repoName"`
	TotalActivity          int64    `json:"totalActivity"`
	UniqueContributors     int64    `json:"uniqueContributors"`
	PushEvents             int64    `json:"pushEvents"`
	PullRequestEvents      int64    `json:"pullRequestEvents"`
	IssueEvents            int64    `json:"issueEvents"`
	CreateEvents           int64    `json:"createEvents"`
	WatchEvents            int64    `json:"watchEvents"`
	ActivityPerContributor float64  `json:"activityPerContributor"`
	FirstActivity          string   `json:"firstActivity"`
	LastActivity           string   `json:"lastActivity"`
	Categories             []string `json:"categories"`
	IsActive               bool     `json:"isActive"`
}

type RepositorySummaryDTO struct {
	TotalRepositories  int     `json:"totalRepositories"`
	TotalActivity      int64   `json:"totalActivity"`
	AvgActivityPerRepo float64 `json:"avgActivityPerRepo"`
	ActiveRepositories int     `json:"activeRepositories"`
}

type RepositoriesDTO struct {
	Repositories []RepositoryDTO      `json:"repositories"`
	Summary      RepositorySummaryDTO `json:"summary"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope is the failure shape shared by every endpoint.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
