package usecase

import (
	"context"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
)

type GetTimelineUseCase struct {
	reader ports.DashboardReaderPort
}

func NewGetTimelineUseCase(reader ports.DashboardReaderPort) *GetTimelineUseCase {
	return &GetTimelineUseCase{reader: reader}
}

// Execute fetches the daily series and computes the summary block.
func (uc *GetTimelineUseCase) Execute(ctx context.Context) (*domain.Timeline, error) {
	days, err := uc.reader.TimelineDays(ctx)
	if err != nil {
		return nil, err
	}

	tl := &domain.Timeline{Days: days}

	for i := range days {
		tl.TotalEvents += days[i].TotalEvents
		if tl.PeakDay == nil || days[i].TotalEvents > tl.PeakDay.TotalEvents {
			tl.PeakDay = &days[i]
		}
	}
	if len(days) > 0 {
		tl.AvgEventsPerDay = round2(float64(tl.TotalEvents) / float64(len(days)))
	}

	return tl, nil
}
