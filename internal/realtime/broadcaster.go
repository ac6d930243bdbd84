package realtime

import (
	"context"
	"sync"
	"time"

	"events-analytics-service/internal/analytics/core/domain"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the broadcast cadence.
const DefaultInterval = 30 * time.Second

// snapshotTimeout bounds one snapshot computation so a stuck query cannot
// freeze the loop across ticks.
const snapshotTimeout = 20 * time.Second

// SnapshotSource computes one broadcast snapshot. Implemented by the
// analytics snapshot use case.
type SnapshotSource interface {
	Execute(ctx context.Context) (*domain.ActivitySnapshot, error)
}

// Broadcaster runs the periodic refresh-and-push cycle: one snapshot per
// tick, fanned out to every active subscriber through the hub. Compute and
// fan-out happen on a single goroutine, so ticks never overlap and every
// subscriber sees snapshots in the order they were computed.
type Broadcaster struct {
	hub      *Hub
	source   SnapshotSource
	interval time.Duration
	logger   *logrus.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewBroadcaster(hub *Hub, source SnapshotSource, interval time.Duration, logger *logrus.Logger) *Broadcaster {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Broadcaster{
		hub:      hub,
		source:   source,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Run loops until Stop. A failed snapshot skips the tick; it never
// terminates the loop or any subscriber's channel.
func (b *Broadcaster) Run() {
	b.logger.WithFields(logrus.Fields{
		"interval": b.interval,
	}).Info("Broadcast loop started")

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.tick()
		case <-b.stop:
			b.logger.Info("Broadcast loop stopped")
			return
		}
	}
}

// Stop terminates the loop. Idempotent.
func (b *Broadcaster) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

func (b *Broadcaster) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snap, err := b.source.Execute(ctx)
	if err != nil {
		b.logger.WithError(err).Warn("Snapshot computation failed, skipping tick")
		return
	}

	b.hub.Broadcast(Message{
		Type:      "data_update",
		Data:      snapshotPayload(snap),
		Timestamp: time.Now().UTC(),
	})
}

// HandleSubscriber is the websocket endpoint. It pushes one immediate
// snapshot to the new subscriber before registering it, so the initial
// snapshot always precedes any periodic one, then blocks reading until the
// peer disconnects.
func (b *Broadcaster) HandleSubscriber(c *websocket.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	snap, err := b.source.Execute(ctx)
	cancel()

	if err != nil {
		b.logger.WithError(err).Warn("Initial snapshot failed")
	} else {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(Message{
			Type:      "initial_data",
			Data:      snapshotPayload(snap),
			Timestamp: time.Now().UTC(),
		}); err != nil {
			c.Close()
			return
		}
	}

	client := b.hub.Register(c)
	go client.WritePump()

	// Block until the peer goes away; inbound content is ignored.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	b.hub.Unregister(client)
}

type bucketDTO struct {
	Key         string `json:"key"`
	EventCount  int64  `json:"event_count"`
	UniqueUsers int64  `json:"unique_users"`
}

type snapshotDTO struct {
	WindowStart     time.Time   `json:"window_start"`
	WindowEnd       time.Time   `json:"window_end"`
	TotalEvents     int64       `json:"total_events"`
	ByDate          []bucketDTO `json:"by_date"`
	ByType          []bucketDTO `json:"by_type"`
	ByHour          []bucketDTO `json:"by_hour"`
	TopRepositories []bucketDTO `json:"top_repositories"`
}

func snapshotPayload(snap *domain.ActivitySnapshot) snapshotDTO {
	return snapshotDTO{
		WindowStart:     snap.WindowStart,
		WindowEnd:       snap.WindowEnd,
		TotalEvents:     snap.TotalEvents,
		ByDate:          bucketDTOs(snap.ByDate),
		ByType:          bucketDTOs(snap.ByType),
		ByHour:          bucketDTOs(snap.ByHour),
		TopRepositories: bucketDTOs(snap.TopRepositories),
	}
}

func bucketDTOs(buckets []domain.SnapshotBucket) []bucketDTO {
	out := make([]bucketDTO, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketDTO{
			Key:         b.Key,
			EventCount:  b.EventCount,
			UniqueUsers: b.UniqueUsers,
		})
	}
	return out
}
