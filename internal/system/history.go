package system

import (
	"context"
	"time"

	"github.com/bigball/bigball/internal/core/event"
	coresys "github.com/bigball/bigball/internal/core/system"
	"github.com/bigball/bigball/internal/persist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate go tool mockgen -destination=./mocks/run_store_mock.go -package=mocks . RunStore

// RunStore records run history. persist.RunRepo implements it.
type RunStore interface {
	StartRun(ctx context.Context, run persist.Run) error
	AppendCollisions(ctx context.Context, runID uuid.UUID, rows []persist.CollisionRow) error
	FinishRun(ctx context.Context, summary persist.RunSummary) error
}

// HistorySystem buffers collisions from the bus and writes them to the store
// in batches. Phase 3 (Persist). A failed write keeps the batch for the next
// flush.
type HistorySystem struct {
	store      RunStore
	run        persist.Run
	flushEvery int
	timeout    time.Duration
	log        *zap.Logger

	pending  []persist.CollisionRow
	last     event.TickCompleted
	ticks    int
	started  bool
	finished bool
}

func NewHistorySystem(store RunStore, run persist.Run, bus *event.Bus, flushEvery int, log *zap.Logger) *HistorySystem {
	if flushEvery < 1 {
		flushEvery = 1
	}
	s := &HistorySystem{
		store:      store,
		run:        run,
		flushEvery: flushEvery,
		timeout:    5 * time.Second,
		log:        log.With(zap.Stringer("run", run.ID)),
	}
	event.Subscribe(bus, s.onCollision)
	event.Subscribe(bus, s.onTick)
	return s
}

// Start records the run. It must succeed before any tick is persisted.
func (s *HistorySystem) Start(ctx context.Context) error {
	if err := s.store.StartRun(ctx, s.run); err != nil {
		return err
	}
	s.started = true
	return nil
}

func (s *HistorySystem) onCollision(e event.CollisionResolved) {
	s.pending = append(s.pending, persist.CollisionRow{
		Tick:        e.Tick,
		Interaction: e.Interaction.String(),
		SourceID:    uint64(e.Source),
		SourceKind:  e.SourceKind.String(),
		TargetID:    uint64(e.Target),
		TargetKind:  e.TargetKind.String(),
	})
}

func (s *HistorySystem) onTick(e event.TickCompleted) {
	s.last = e
}

// Pending returns the number of collisions not yet written.
func (s *HistorySystem) Pending() int { return len(s.pending) }

func (s *HistorySystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *HistorySystem) Update(_ time.Duration) {
	if !s.started || s.finished {
		return
	}
	s.ticks++
	if s.ticks%s.flushEvery != 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.flush(ctx); err != nil {
		s.log.Warn("collision flush failed", zap.Int("pending", len(s.pending)), zap.Error(err))
	}
}

func (s *HistorySystem) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.store.AppendCollisions(ctx, s.run.ID, s.pending); err != nil {
		return err
	}
	s.log.Debug("collisions flushed", zap.Int("rows", len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

// Close writes what is left and the run summary. The driver delivers the
// last tick's events before calling it.
func (s *HistorySystem) Close(ctx context.Context) error {
	if !s.started || s.finished {
		return nil
	}
	s.finished = true
	if err := s.flush(ctx); err != nil {
		return err
	}
	return s.store.FinishRun(ctx, persist.RunSummary{
		ID:         s.run.ID,
		Ticks:      s.last.Tick,
		Survivors:  s.last.Survivors,
		Finished:   s.last.Finished,
		Digest:     s.last.Digest,
		FinishedAt: time.Now(),
	})
}
