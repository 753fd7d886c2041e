package summarizer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
)

// momIndex is the slice of the room store the scheduler reads.
type momIndex interface {
	ListRooms() []entities.RoomInfo
	GetMOM(room string) (entities.MOM, bool)
}

// RegenerateFunc produces and applies a fresh MOM for one room. The session
// router provides it so the scheduler shares the router's store-and-broadcast
// path.
type RegenerateFunc func(ctx context.Context, room string)

// Scheduler periodically regenerates the MOM for rooms whose newest
// transcript is more recent than their last generated MOM. Eligible rooms
// are dispatched as independent goroutines so a slow summarization for one
// room never delays the others; tick scans themselves never overlap because
// a single loop drives the ticker.
type Scheduler struct {
	store      momIndex
	interval   time.Duration
	regenerate RegenerateFunc
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewScheduler constructs a scheduler. Interval must be positive.
func NewScheduler(store momIndex, interval time.Duration, regenerate RegenerateFunc, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:      store,
		interval:   interval,
		regenerate: regenerate,
		logger:     logger,
		inFlight:   make(map[string]struct{}),
	}
}

// Run blocks, scanning rooms on every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick dispatches one regeneration per room with transcript activity newer
// than its stored MOM. Rooms without newer activity are skipped.
func (s *Scheduler) tick(ctx context.Context) {
	for _, info := range s.store.ListRooms() {
		if info.LastUpdated == 0 {
			continue
		}
		var lastGenerated int64
		if mom, ok := s.store.GetMOM(info.Room); ok {
			lastGenerated = mom.GeneratedAt
		}
		if info.LastUpdated <= lastGenerated {
			continue
		}

		// skip rooms whose previous regeneration is still in flight
		s.mu.Lock()
		if _, busy := s.inFlight[info.Room]; busy {
			s.mu.Unlock()
			continue
		}
		s.inFlight[info.Room] = struct{}{}
		s.mu.Unlock()

		if s.logger != nil {
			s.logger.Debug("regenerating MOM",
				zap.String("room", info.Room),
				zap.Int64("newest_transcript", info.LastUpdated),
				zap.Int64("last_generated", lastGenerated),
			)
		}
		go func(room string) {
			defer func() {
				s.mu.Lock()
				delete(s.inFlight, room)
				s.mu.Unlock()
			}()
			s.regenerate(ctx, room)
		}(info.Room)
	}
}
