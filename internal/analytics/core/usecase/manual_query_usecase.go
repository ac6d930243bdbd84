package usecase

import (
	"context"
	"errors"
	"strings"

	"events-analytics-service/internal/analytics/core/ports"
	"events-analytics-service/internal/analytics/core/query"
)

var ErrEmptyQuery = errors.New("query is required")

type ManualQueryResult struct {
	Columns []string
	Rows    []map[string]any
}

type ManualQueryUseCase struct {
	store ports.EventStorePort
}

func NewManualQueryUseCase(store ports.EventStorePort) *ManualQueryUseCase {
	return &ManualQueryUseCase{store: store}
}

// Execute runs a user-submitted query after the read-only guard approves it.
// The guard is checked before anything touches the store; a rejection never
// reaches the executor.
func (uc *ManualQueryUseCase) Execute(ctx context.Context, rawQuery string) (*ManualQueryResult, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, ErrEmptyQuery
	}

	if err := query.ValidateManualQuery(rawQuery); err != nil {
		return nil, err
	}

	columns, rows, err := uc.store.RunRawQuery(ctx, rawQuery)
	if err != nil {
		return nil, err
	}

	return &ManualQueryResult{Columns: columns, Rows: rows}, nil
}
