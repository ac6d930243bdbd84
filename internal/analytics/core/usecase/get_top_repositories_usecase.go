package usecase

import (
	"context"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
)

const (
	defaultRepoLimit = 10
	maxRepoLimit     = 100
)

type GetTopRepositoriesUseCase struct {
	reader ports.DashboardReaderPort
}

func NewGetTopRepositoriesUseCase(reader ports.DashboardReaderPort) *GetTopRepositoriesUseCase {
	return &GetTopRepositoriesUseCase{reader: reader}
}

// Execute returns the most active repositories. A zero limit means the
// default; anything out of bounds is rejected before the query is built,
// because the repository interpolates the limit as an integer.
func (uc *GetTopRepositoriesUseCase) Execute(ctx context.Context, limit int) ([]domain.RepositoryStats, error) {
	if limit == 0 {
		limit = defaultRepoLimit
	}
	if limit < 1 || limit > maxRepoLimit {
		return nil, ErrInvalidLimit
	}

	return uc.reader.TopRepositories(ctx, limit)
}
