package system

import (
	"time"

	"github.com/bigball/bigball/internal/arena"
	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/core/event"
	coresys "github.com/bigball/bigball/internal/core/system"
	"go.uber.org/zap"
)

// SimulationSystem advances the arena once per tick and publishes what
// happened. Phase 1 (Simulate).
type SimulationSystem struct {
	arena *arena.Arena
	bus   *event.Bus
	log   *zap.Logger
}

func NewSimulationSystem(a *arena.Arena, bus *event.Bus, log *zap.Logger) *SimulationSystem {
	return &SimulationSystem{arena: a, bus: bus, log: log}
}

func (s *SimulationSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

// Update is a no-op once the arena is finished.
func (s *SimulationSystem) Update(_ time.Duration) {
	if s.arena.IsFinished() {
		return
	}
	rep := s.arena.Advance()

	for _, c := range rep.Collisions {
		event.Emit(s.bus, event.CollisionResolved{Collision: c})
		if ce := s.log.Check(zap.DebugLevel, "collision"); ce != nil {
			ce.Write(
				zap.Int("tick", c.Tick),
				zap.Stringer("interaction", c.Interaction),
				zap.Uint64("source", uint64(c.Source)),
				zap.Stringer("source_kind", c.SourceKind),
				zap.Uint64("target", uint64(c.Target)),
				zap.Stringer("target_kind", c.TargetKind),
			)
		}
	}
	for _, b := range rep.Removed {
		event.Emit(s.bus, event.BallRemoved{Tick: rep.Tick, Ball: b})
	}

	done := s.arena.IsFinished()
	digest := s.arena.Digest()
	event.Emit(s.bus, event.TickCompleted{
		Tick:      rep.Tick,
		Survivors: s.arena.Len(),
		Regular:   s.arena.Count(ball.Regular),
		Finished:  done,
		Digest:    digest,
	})
	s.log.Debug("tick",
		zap.Int("tick", rep.Tick),
		zap.Int("collisions", len(rep.Collisions)),
		zap.Int("removed", len(rep.Removed)),
		zap.Int("survivors", s.arena.Len()),
		zap.String("digest", formatDigest(digest)),
	)
	if done {
		s.log.Info("last regular ball gone", zap.Int("tick", rep.Tick))
	}
}
