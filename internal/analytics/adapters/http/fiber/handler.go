package fiber

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
	"events-analytics-service/internal/analytics/core/query"
	"events-analytics-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RunQueryUseCase interface {
	Execute(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error)
}

type ManualQueryUseCase interface {
	Execute(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error)
}

type GetOverviewUseCase interface {
	Execute(ctx context.Context) (*domain.OverviewMetrics, error)
}

type GetTimelineUseCase interface {
	Execute(ctx context.Context) (*domain.Timeline, error)
}

type GetTopRepositoriesUseCase interface {
	Execute(ctx context.Context, limit int) ([]domain.RepositoryStats, error)
}

type AnalyticsHandler struct {
	runQueryUC    RunQueryUseCase
	manualQueryUC ManualQueryUseCase
	overviewUC    GetOverviewUseCase
	timelineUC    GetTimelineUseCase
	topReposUC    GetTopRepositoriesUseCase
}

func NewAnalyticsHandler(
	runQueryUC RunQueryUseCase,
	manualQueryUC ManualQueryUseCase,
	overviewUC GetOverviewUseCase,
	timelineUC GetTimelineUseCase,
	topReposUC GetTopRepositoriesUseCase,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		runQueryUC:    runQueryUC,
		manualQueryUC: manualQueryUC,
		overviewUC:    overviewUC,
		timelineUC:    timelineUC,
		topReposUC:    topReposUC,
	}
}

// RunQuery godoc
// @Summary Run a parameterized aggregation query
// @Description Aggregates events over a whitelisted dimension within a data-anchored time window
// @Tags Analytics
// @Produce json
// @Param event_types query string true "Comma-separated event types, or 'all'"
// @Param time_range query string true "One of 1d, 7d, 30d, 90d, 1y"
// @Param group_by query string true "One of repository, user, event_type, language, hour, day"
// @Param limit query int false "Row limit (1-1000)"
// @Param sort_by query string false "event_count or unique_count"
// @Success 200 {object} QueryExecutorResponse
// @Failure 400 {object} ErrorEnvelope
// @Failure 404 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /api/query-executor [get]
func (h *AnalyticsHandler) RunQuery(c *fiber.Ctx) error {
	eventTypesParam := c.Query("event_types", "")
	timeRange := c.Query("time_range", "")
	groupBy := c.Query("group_by", "")
	if eventTypesParam == "" || timeRange == "" || groupBy == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{
			Message: "Missing required parameters: event_types, time_range, group_by",
		})
	}

	limit := c.QueryInt("limit", 50)
	sortBy := c.Query("sort_by", "event_count")
	eventTypes := splitEventTypes(eventTypesParam)

	in := usecase.RunQueryInput{
		EventTypes: eventTypes,
		TimeRange:  timeRange,
		GroupBy:    groupBy,
		SortBy:     sortBy,
		Limit:      limit,
	}

	res, err := h.runQueryUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeQueryError(c, err)
	}

	return c.Status(http.StatusOK).JSON(QueryExecutorResponse{
		Success: true,
		Data:    res.Rows,
		Query: QueryEcho{
			EventTypes: eventTypes,
			TimeRange:  timeRange,
			GroupBy:    groupBy,
			Limit:      limit,
			SortBy:     sortBy,
		},
		Metadata: QueryMetadata{
			ResultCount: len(res.Rows),
			ExecutedAt:  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ManualQuery godoc
// @Summary Execute a read-only SQL query
// @Description Runs a user-submitted SELECT after the denylist guard approves it
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body ManualQueryRequest true "Query payload"
// @Success 200 {object} ManualQueryResponse
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /api/manual-query [post]
func (h *AnalyticsHandler) ManualQuery(c *fiber.Ctx) error {
	var req ManualQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{
			Message: "Query parameter is required and must be a string",
		})
	}

	res, err := h.manualQueryUC.Execute(c.UserContext(), req.Query)
	if err != nil {
		return writeQueryError(c, err)
	}

	return c.Status(http.StatusOK).JSON(ManualQueryResponse{
		Success: true,
		Data:    res.Rows,
		Metadata: ManualQueryMetadata{
			Query:       req.Query,
			QueryID:     uuid.NewString(),
			ResultCount: len(res.Rows),
			ExecutedAt:  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// GetMetrics godoc
// @Summary Overview dashboard metrics
// @Tags Dashboards
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} ErrorEnvelope
// @Router /api/github-metrics [get]
func (h *AnalyticsHandler) GetMetrics(c *fiber.Ctx) error {
	start := time.Now()

	m, err := h.overviewUC.Execute(c.UserContext())
	if err != nil {
		return writeDashboardError(c, err)
	}

	return c.Status(http.StatusOK).JSON(DashboardResponse{
		Success: true,
		Data: OverviewMetricsDTO{
			TotalEvents:     m.TotalEvents,
			UniqueUsers:     m.UniqueUsers,
			UniqueRepos:     m.UniqueRepos,
			PeakDailyEvents: m.PeakDailyEvents,
			DaysOperational: m.DaysOperational,
			AvgEventsPerDay: m.AvgEventsPerDay,
			Uptime:          m.Uptime,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		QueryTime: queryTime(start),
	})
}

// GetTimeline godoc
// @Summary Daily activity timeline
// @Tags Dashboards
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} ErrorEnvelope
// @Router /api/github-timeline [get]
func (h *AnalyticsHandler) GetTimeline(c *fiber.Ctx) error {
	start := time.Now()

	tl, err := h.timelineUC.Execute(c.UserContext())
	if err != nil {
		return writeDashboardError(c, err)
	}

	dto := TimelineDTO{
		Timeline:  make([]TimelineDayDTO, 0, len(tl.Days)),
		TotalDays: len(tl.Days),
		Summary: TimelineSummaryDTO{
			TotalEvents:     tl.TotalEvents,
			AvgEventsPerDay: tl.AvgEventsPerDay,
		},
	}
	for _, d := range tl.Days {
		dto.Timeline = append(dto.Timeline, timelineDayDTO(d))
	}
	if len(dto.Timeline) > 0 {
		dto.DateRange = DateRangeDTO{
			Start: dto.Timeline[0].Date,
			End:   dto.Timeline[len(dto.Timeline)-1].Date,
		}
	}
	if tl.PeakDay != nil {
		peak := timelineDayDTO(*tl.PeakDay)
		dto.Summary.PeakDay = &peak
	}

	return c.Status(http.StatusOK).JSON(DashboardResponse{
		Success:   true,
		Data:      dto,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		QueryTime: queryTime(start),
	})
}

// GetTopRepositories godoc
// @Summary Most active repositories
// @Tags Dashboards
// @Produce json
// @Param limit query int false "Number of repositories (1-100, default 10)"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /api/github-repositories [get]
func (h *AnalyticsHandler) GetTopRepositories(c *fiber.Ctx) error {
	start := time.Now()

	repos, err := h.topReposUC.Execute(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLimit) {
			return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{Message: err.Error()})
		}
		return writeDashboardError(c, err)
	}

	dto := RepositoriesDTO{
		Repositories: make([]RepositoryDTO, 0, len(repos)),
	}
	var totalActivity int64
	active := 0
	for _, r := range repos {
		totalActivity += r.TotalActivity
		if r.IsActive() {
			active++
		}
		dto.Repositories = append(dto.Repositories, RepositoryDTO{
			RepoName:               r.RepoName,
			TotalActivity:          r.TotalActivity,
			UniqueContributors:     r.UniqueContributors,
			PushEvents:             r.PushEvents,
			PullRequestEvents:      r.PullRequestEvents,
			IssueEvents:            r.IssueEvents,
			CreateEvents:           r.CreateEvents,
			WatchEvents:            r.WatchEvents,
			ActivityPerContributor: r.ActivityPerContributor,
			FirstActivity:          r.FirstActivity.UTC().Format(time.RFC3339),
			LastActivity:           r.LastActivity.UTC().Format(time.RFC3339),
			Categories:             r.Categories(),
			IsActive:               r.IsActive(),
		})
	}
	dto.Summary = RepositorySummaryDTO{
		TotalRepositories:  len(repos),
		TotalActivity:      totalActivity,
		ActiveRepositories: active,
	}
	if len(repos) > 0 {
		dto.Summary.AvgActivityPerRepo = math.Round(float64(totalActivity)/float64(len(repos))*100) / 100
	}

	return c.Status(http.StatusOK).JSON(DashboardResponse{
		Success:   true,
		Data:      dto,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		QueryTime: queryTime(start),
	})
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Service health
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 500 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.db.PingContext(c.UserContext()); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(HealthResponse{
			Status:    "unhealthy",
			Error:     err.Error(),
			Timestamp: now,
		})
	}
	return c.Status(http.StatusOK).JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: now,
	})
}

func splitEventTypes(param string) []string {
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func timelineDayDTO(d domain.TimelineDay) TimelineDayDTO {
	return TimelineDayDTO{
		Date:              d.Date.UTC().Format("2006-01-02"),
		TotalEvents:       d.TotalEvents,
		UniqueUsers:       d.UniqueUsers,
		UniqueRepos:       d.UniqueRepos,
		PushEvents:        d.PushEvents,
		PullRequestEvents: d.PullRequestEvents,
		IssueEvents:       d.IssueEvents,
		CreateEvents:      d.CreateEvents,
	}
}

// writeQueryError maps validation and policy errors to 400 responses and
// everything else to a generic execution failure.
func writeQueryError(c *fiber.Ctx, err error) error {
	var forbidden *query.ForbiddenKeywordError
	switch {
	case errors.As(err, &forbidden):
		return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{
			Message: forbidden.Error() + ". Only SELECT queries are allowed.",
			Error:   "forbidden_keyword",
		})
	case errors.Is(err, query.ErrNotSelect):
		return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{
			Message: "Only SELECT queries are allowed for security reasons",
			Error:   "not_select",
		})
	case errors.Is(err, query.ErrUnknownDimension),
		errors.Is(err, query.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrMissingEventTypes),
		errors.Is(err, usecase.ErrInvalidLimit),
		errors.Is(err, usecase.ErrEmptyQuery):
		return c.Status(http.StatusBadRequest).JSON(ErrorEnvelope{
			Message: err.Error(),
			Error:   "validation_error",
		})
	case errors.Is(err, ports.ErrNoData):
		return c.Status(http.StatusNotFound).JSON(ErrorEnvelope{
			Message: err.Error(),
			Error:   "no_data",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorEnvelope{
			Message: "Query execution failed: " + err.Error(),
			Error:   "execution_error",
		})
	}
}

func writeDashboardError(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusInternalServerError).JSON(ErrorEnvelope{
		Message: "Query execution failed: " + err.Error(),
		Error:   "execution_error",
	})
}

func queryTime(start time.Time) string {
	return time.Since(start).Truncate(time.Millisecond).String()
}
