package system

import (
	"fmt"

	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/core/event"
	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/zap"
)

// StatsSystem tallies what happened over a run. It only listens on the bus
// and has no per-tick work of its own.
type StatsSystem struct {
	interactions *orderedmap.OrderedMap[string, int] // first-seen order
	removed      [len(ball.Kinds)]int
	lastTick     event.TickCompleted
}

func NewStatsSystem(bus *event.Bus) *StatsSystem {
	s := &StatsSystem{
		interactions: orderedmap.NewOrderedMap[string, int](),
	}
	event.Subscribe(bus, s.onCollision)
	event.Subscribe(bus, s.onRemoved)
	event.Subscribe(bus, s.onTick)
	return s
}

func (s *StatsSystem) onCollision(e event.CollisionResolved) {
	name := e.Interaction.String()
	n, _ := s.interactions.Get(name)
	s.interactions.Set(name, n+1)
}

func (s *StatsSystem) onRemoved(e event.BallRemoved) {
	if e.Ball.Kind.Valid() {
		s.removed[e.Ball.Kind]++
	}
}

func (s *StatsSystem) onTick(e event.TickCompleted) {
	s.lastTick = e
}

// Interactions returns how many times the named interaction resolved.
func (s *StatsSystem) Interactions(name string) int {
	n, _ := s.interactions.Get(name)
	return n
}

// Removed returns how many balls of kind k were pruned.
func (s *StatsSystem) Removed(k ball.Kind) int {
	if !k.Valid() {
		return 0
	}
	return s.removed[k]
}

// LastTick returns the most recent tick report delivered.
func (s *StatsSystem) LastTick() event.TickCompleted { return s.lastTick }

// Summary renders the interaction tally as "[absorb=3 devour=1]".
func (s *StatsSystem) Summary() string {
	out := "["
	count := s.interactions.Len()
	for _, key := range s.interactions.Keys() {
		v, _ := s.interactions.Get(key)
		out += fmt.Sprintf("%s=%d", key, v)
		count--
		if count > 0 {
			out += " "
		}
	}
	return out + "]"
}

// Fields returns the run summary as log fields.
func (s *StatsSystem) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("ticks", s.lastTick.Tick),
		zap.Int("survivors", s.lastTick.Survivors),
		zap.String("interactions", s.Summary()),
		zap.Int("regular_removed", s.removed[ball.Regular]),
		zap.Int("monster_removed", s.removed[ball.Monster]),
		zap.Int("repellent_removed", s.removed[ball.Repellent]),
		zap.String("digest", formatDigest(s.lastTick.Digest)),
	}
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}
