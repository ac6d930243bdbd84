package usecase

import (
	"context"
	"time"

	"events-analytics-service/internal/analytics/core/domain"
	"events-analytics-service/internal/analytics/core/ports"
)

// snapshotWindow is the fixed recent window broadcast to subscribers.
const snapshotWindow = 24 * time.Hour

type anchorSource interface {
	MaxEventTime(ctx context.Context) (time.Time, error)
}

type GetSnapshotUseCase struct {
	anchors anchorSource
	reader  ports.SnapshotReaderPort
}

func NewGetSnapshotUseCase(anchors anchorSource, reader ports.SnapshotReaderPort) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{anchors: anchors, reader: reader}
}

// Execute computes one broadcast snapshot: the last day of activity relative
// to the newest event, grouped by date, type, hour and repository.
func (uc *GetSnapshotUseCase) Execute(ctx context.Context) (*domain.ActivitySnapshot, error) {
	anchor, err := uc.anchors.MaxEventTime(ctx)
	if err != nil {
		return nil, err
	}

	window := domain.TimeWindow{
		Anchor:     anchor,
		LowerBound: anchor.Add(-snapshotWindow),
	}

	return uc.reader.RecentActivity(ctx, window)
}
