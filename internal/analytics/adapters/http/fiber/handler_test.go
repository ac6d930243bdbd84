package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "events-analytics-service/internal/analytics/adapters/http/fiber"
	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
	"events-analytics-service/internal/analytics/core/query"
	"events-analytics-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

// Fakes for the use case interfaces the handler depends on.

type fakeRunQueryUC struct {
	ExecuteFn func(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error)
	lastInput usecase.RunQueryInput
}

func (f *fakeRunQueryUC) Execute(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error) {
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &usecase.RunQueryResult{}, nil
}

type fakeManualQueryUC struct {
	ExecuteFn func(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error)
	lastQuery string
}

func (f *fakeManualQueryUC) Execute(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error) {
	f.lastQuery = rawQuery
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, rawQuery)
	}
	return &usecase.ManualQueryResult{}, nil
}

type fakeOverviewUC struct {
	ExecuteFn func(ctx context.Context) (*domain.OverviewMetrics, error)
}

func (f *fakeOverviewUC) Execute(ctx context.Context) (*domain.OverviewMetrics, error) {
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx)
	}
	return &domain.OverviewMetrics{}, nil
}

type fakeTimelineUC struct {
	ExecuteFn func(ctx context.Context) (*domain.Timeline, error)
}

func (f *fakeTimelineUC) Execute(ctx context.Context) (*domain.Timeline, error) {
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx)
	}
	return &domain.Timeline{}, nil
}

type fakeTopReposUC struct {
	ExecuteFn func(ctx context.Context, limit int) ([]domain.RepositoryStats, error)
	lastLimit int
}

func (f *fakeTopReposUC) Execute(ctx context.Context, limit int) ([]domain.RepositoryStats, error) {
	f.lastLimit = limit
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, limit)
	}
	return nil, nil
}

type handlerFakes struct {
	runQuery *fakeRunQueryUC
	manual   *fakeManualQueryUC
	overview *fakeOverviewUC
	timeline *fakeTimelineUC
	topRepos *fakeTopReposUC
}

func setupApp(t *testing.T) (*fiber.App, *handlerFakes) {
	t.Helper()

	fakes := &handlerFakes{
		runQuery: &fakeRunQueryUC{},
		manual:   &fakeManualQueryUC{},
		overview: &fakeOverviewUC{},
		timeline: &fakeTimelineUC{},
		topRepos: &fakeTopReposUC{},
	}

	app := fiber.New()
	h := httpadapter.NewAnalyticsHandler(fakes.runQuery, fakes.manual, fakes.overview, fakes.timeline, fakes.topRepos)
	app.Get("/api/query-executor", h.RunQuery)
	app.Post("/api/manual-query", h.ManualQuery)
	app.Get("/api/github-metrics", h.GetMetrics)
	app.Get("/api/github-timeline", h.GetTimeline)
	app.Get("/api/github-repositories", h.GetTopRepositories)

	return app, fakes
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("failed to decode body %q: %v", body, err)
	}
	return out
}

// ------------------------------------------------------------
// Query executor
// ------------------------------------------------------------

func TestRunQuery_SuccessEchoesParameters(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.runQuery.ExecuteFn = func(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error) {
		return &usecase.RunQueryResult{
			Rows: []map[string]any{
				{"event_type": "PushEvent", "event_count": 120, "unique_count": 1},
			},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/query-executor?event_types=PushEvent,IssuesEvent&time_range=30d&group_by=event_type&limit=50&sort_by=event_count", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}

	echo := body["query"].(map[string]any)
	if echo["timeRange"] != "30d" || echo["groupBy"] != "event_type" || echo["sortBy"] != "event_count" {
		t.Fatalf("unexpected echo: %v", echo)
	}
	if echo["limit"] != float64(50) {
		t.Fatalf("limit echo = %v", echo["limit"])
	}
	types := echo["eventTypes"].([]any)
	if len(types) != 2 || types[0] != "PushEvent" || types[1] != "IssuesEvent" {
		t.Fatalf("eventTypes echo = %v", types)
	}

	meta := body["metadata"].(map[string]any)
	if meta["resultCount"] != float64(1) {
		t.Fatalf("resultCount = %v", meta["resultCount"])
	}

	// handler passed the parsed input through
	if fakes.runQuery.lastInput.Limit != 50 || fakes.runQuery.lastInput.GroupBy != "event_type" {
		t.Fatalf("unexpected input: %+v", fakes.runQuery.lastInput)
	}
}

func TestRunQuery_MissingParams(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/query-executor?time_range=30d", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRunQuery_ValidationErrorIs400(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.runQuery.ExecuteFn = func(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error) {
		return nil, query.ErrUnknownDimension
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/query-executor?event_types=all&time_range=30d&group_by=bogus", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body)
	}
}

func TestRunQuery_NoDataIs404(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.runQuery.ExecuteFn = func(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error) {
		return nil, ports.ErrNoData
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/query-executor?event_types=all&time_range=30d&group_by=repository", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRunQuery_ExecutionErrorIs500(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.runQuery.ExecuteFn = func(ctx context.Context, in usecase.RunQueryInput) (*usecase.RunQueryResult, error) {
		return nil, errors.New("connection refused")
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/query-executor?event_types=all&time_range=30d&group_by=repository", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// Manual query
// ------------------------------------------------------------

func TestManualQuery_Success(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.manual.ExecuteFn = func(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error) {
		return &usecase.ManualQueryResult{
			Columns: []string{"repo_name"},
			Rows:    []map[string]any{{"repo_name": "golang/go"}},
		}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/manual-query",
		strings.NewReader(`{"query":"SELECT repo_name FROM summary"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	meta := body["metadata"].(map[string]any)
	if meta["query"] != "SELECT repo_name FROM summary" {
		t.Fatalf("query echo = %v", meta["query"])
	}
	if meta["queryId"] == "" || meta["queryId"] == nil {
		t.Fatalf("expected a query id, got %v", meta["queryId"])
	}
	if fakes.manual.lastQuery != "SELECT repo_name FROM summary" {
		t.Fatalf("usecase got %q", fakes.manual.lastQuery)
	}
}

func TestManualQuery_ForbiddenKeywordIs400(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.manual.ExecuteFn = func(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error) {
		return nil, &query.ForbiddenKeywordError{Keyword: "DROP"}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/manual-query",
		strings.NewReader(`{"query":"select 1; DROP TABLE t"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "DROP") {
		t.Fatalf("message should name the keyword: %v", msg)
	}
}

func TestManualQuery_NotSelectIs400(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.manual.ExecuteFn = func(ctx context.Context, rawQuery string) (*usecase.ManualQueryResult, error) {
		return nil, query.ErrNotSelect
	}

	req := httptest.NewRequest(http.MethodPost, "/api/manual-query",
		strings.NewReader(`{"query":"SHOW TABLES"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestManualQuery_BadBody(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/manual-query", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// Dashboards
// ------------------------------------------------------------

func TestGetMetrics_Success(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.overview.ExecuteFn = func(ctx context.Context) (*domain.OverviewMetrics, error) {
		return &domain.OverviewMetrics{
			TotalEvents:     1000,
			UniqueUsers:     200,
			AvgEventsPerDay: 250,
			Uptime:          97.6,
		}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/github-metrics", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["totalEvents"] != float64(1000) || data["avgEventsPerDay"] != float64(250) {
		t.Fatalf("unexpected data: %v", data)
	}
	if body["queryTime"] == nil || body["timestamp"] == nil {
		t.Fatalf("missing envelope fields: %v", body)
	}
}

func TestGetTimeline_Success(t *testing.T) {
	app, fakes := setupApp(t)
	day := domain.TimelineDay{
		Date:        time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC),
		TotalEvents: 300,
	}
	fakes.timeline.ExecuteFn = func(ctx context.Context) (*domain.Timeline, error) {
		return &domain.Timeline{
			Days:            []domain.TimelineDay{day},
			TotalEvents:     300,
			AvgEventsPerDay: 300,
			PeakDay:         &day,
		}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/github-timeline", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["totalDays"] != float64(1) {
		t.Fatalf("totalDays = %v", data["totalDays"])
	}
	dr := data["dateRange"].(map[string]any)
	if dr["start"] != "2024-05-18" || dr["end"] != "2024-05-18" {
		t.Fatalf("dateRange = %v", dr)
	}
	summary := data["summary"].(map[string]any)
	if summary["peakDay"] == nil {
		t.Fatalf("missing peakDay: %v", summary)
	}
}

func TestGetTopRepositories_Success(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.topRepos.ExecuteFn = func(ctx context.Context, limit int) ([]domain.RepositoryStats, error) {
		return []domain.RepositoryStats{
			{
				RepoName:      "golang/go",
				TotalActivity: 500,
				PushEvents:    300,
				WatchEvents:   25,
				FirstActivity: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				LastActivity:  time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
			},
		}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/github-repositories?limit=5", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if fakes.topRepos.lastLimit != 5 {
		t.Fatalf("limit = %d, want 5", fakes.topRepos.lastLimit)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	repos := data["repositories"].([]any)
	repo := repos[0].(map[string]any)
	if repo["isActive"] != true {
		t.Fatalf("expected isActive, got %v", repo)
	}
	cats := repo["categories"].([]any)
	if len(cats) != 2 || cats[0] != "Development" || cats[1] != "Community" {
		t.Fatalf("categories = %v", cats)
	}
	summary := data["summary"].(map[string]any)
	if summary["activeRepositories"] != float64(1) {
		t.Fatalf("summary = %v", summary)
	}
}

func TestGetTopRepositories_InvalidLimitIs400(t *testing.T) {
	app, fakes := setupApp(t)
	fakes.topRepos.ExecuteFn = func(ctx context.Context, limit int) ([]domain.RepositoryStats, error) {
		return nil, usecase.ErrInvalidLimit
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/github-repositories?limit=999", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
