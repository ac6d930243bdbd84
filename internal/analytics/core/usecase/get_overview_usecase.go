package usecase

import (
	"context"
	"math"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
)

type GetOverviewUseCase struct {
	reader ports.DashboardReaderPort
}

func NewGetOverviewUseCase(reader ports.DashboardReaderPort) *GetOverviewUseCase {
	return &GetOverviewUseCase{reader: reader}
}

// Execute fetches the headline counters and fills in the derived fields.
func (uc *GetOverviewUseCase) Execute(ctx context.Context) (*domain.OverviewMetrics, error) {
	m, err := uc.reader.OverviewCounts(ctx)
	if err != nil {
		return nil, err
	}

	if m.DaysOperational > 0 {
		m.AvgEventsPerDay = round2(float64(m.TotalEvents) / float64(m.DaysOperational))
		days := float64(m.DaysOperational)
		m.Uptime = math.Min(99.9, round1(days/(days+0.1)*100))
	}

	return m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
