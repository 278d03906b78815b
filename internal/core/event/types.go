package event

import (
	"github.com/bigball/bigball/internal/arena"
	"github.com/bigball/bigball/internal/ball"
)

// CollisionResolved is emitted once per resolved pair, in scan order.
type CollisionResolved struct {
	arena.Collision
}

// BallRemoved is emitted for every ball pruned at the end of a tick.
type BallRemoved struct {
	Tick int
	Ball ball.Ball
}

// TickCompleted is emitted after every Advance.
type TickCompleted struct {
	Tick      int
	Survivors int
	Regular   int
	Finished  bool
	Digest    uint64
}
