package arena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

var (
	ErrInvalidDimensions = errors.New("arena width and height must be positive")
	ErrInvalidCount      = errors.New("ball counts must not be negative")
	ErrInvalidBall       = errors.New("invalid ball")
)

// Counts is the number of balls of each kind spawned at construction.
type Counts struct {
	Regular   int
	Monster   int
	Repellent int
}

// Total returns the sum of all counts.
func (c Counts) Total() int { return c.Regular + c.Monster + c.Repellent }

// Report describes what one Advance did.
type Report struct {
	Tick       int
	Collisions []Collision
	Removed    []ball.Ball
}

// Arena owns the balls and steps the simulation. Balls are kept in a single
// ordered slice; the collision pass walks it by index so that a resolution
// is visible to every later pair of the same pass. Not safe for concurrent use.
type Arena struct {
	width  int
	height int
	balls  []ball.Ball
	ids    *ecs.EntityPool
	tick   int
}

// New spawns counts.Regular regular balls, then monsters, then repellents,
// drawing every random value from rng.
func New(width, height int, counts Counts, rng *rand.Rand) (*Arena, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}
	if counts.Regular < 0 || counts.Monster < 0 || counts.Repellent < 0 {
		return nil, fmt.Errorf("%w: regular=%d monster=%d repellent=%d",
			ErrInvalidCount, counts.Regular, counts.Monster, counts.Repellent)
	}

	a := newArena(width, height, counts.Total())
	for i := 0; i < counts.Regular; i++ {
		a.add(ball.New(ball.Regular, float32(5+rng.Intn(10)), a.randomPosition(rng), randomVelocity(rng)))
	}
	for i := 0; i < counts.Monster; i++ {
		a.add(ball.New(ball.Monster, float32(10+rng.Intn(10)), a.randomPosition(rng), mgl32.Vec2{}))
	}
	for i := 0; i < counts.Repellent; i++ {
		a.add(ball.New(ball.Repellent, float32(5+rng.Intn(10)), a.randomPosition(rng), randomVelocity(rng)))
	}
	return a, nil
}

// NewWithBalls builds an arena holding exactly the given balls, in order.
// IDs already set on the input are replaced.
func NewWithBalls(width, height int, balls []ball.Ball) (*Arena, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}
	a := newArena(width, height, len(balls))
	for i, b := range balls {
		if !b.Kind.Valid() {
			return nil, fmt.Errorf("%w: ball %d has %s", ErrInvalidBall, i, b.Kind)
		}
		if b.Radius < 0 || math.IsNaN(float64(b.Radius)) {
			return nil, fmt.Errorf("%w: ball %d has radius %v", ErrInvalidBall, i, b.Radius)
		}
		a.add(ball.New(b.Kind, b.Radius, b.Position, b.Velocity))
	}
	return a, nil
}

func validateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

func newArena(width, height, capacity int) *Arena {
	return &Arena{
		width:  width,
		height: height,
		balls:  make([]ball.Ball, 0, capacity),
		ids:    ecs.NewEntityPool(),
	}
}

func (a *Arena) add(b ball.Ball) {
	b.ID = a.ids.Create()
	a.balls = append(a.balls, b)
}

func (a *Arena) randomPosition(rng *rand.Rand) mgl32.Vec2 {
	return mgl32.Vec2{float32(rng.Intn(a.width)), float32(rng.Intn(a.height))}
}

func randomVelocity(rng *rand.Rand) mgl32.Vec2 {
	return mgl32.Vec2{float32(rng.Float64()*2 - 1), float32(rng.Float64()*2 - 1)}
}

func (a *Arena) Width() int  { return a.width }
func (a *Arena) Height() int { return a.height }

// Tick returns the number of completed Advance calls.
func (a *Arena) Tick() int { return a.tick }

// Len returns the number of balls currently in the arena.
func (a *Arena) Len() int { return len(a.balls) }

// Balls returns the live collection in order. The slice is owned by the
// arena and is only valid until the next Advance.
func (a *Arena) Balls() []ball.Ball { return a.balls }

// Alive reports whether the ball with the given ID is still in the arena.
func (a *Arena) Alive(id ecs.EntityID) bool { return a.ids.Alive(id) }

// Count returns how many balls of kind k remain.
func (a *Arena) Count(k ball.Kind) int {
	n := 0
	for i := range a.balls {
		if a.balls[i].Kind == k {
			n++
		}
	}
	return n
}

// IsFinished reports whether no regular ball remains. Monsters and
// repellents alone do not keep the simulation running.
func (a *Arena) IsFinished() bool {
	for i := range a.balls {
		if a.balls[i].Kind == ball.Regular {
			return false
		}
	}
	return true
}

// Advance runs one tick: move every ball, clamp monsters, resolve every
// colliding pair in ascending index order, then drop dead balls.
func (a *Arena) Advance() Report {
	a.tick++
	rep := Report{Tick: a.tick}

	for i := range a.balls {
		a.balls[i].Advance(a.width, a.height)
	}
	for i := range a.balls {
		a.balls[i].AdjustPosition(a.width, a.height)
	}

	for i := 0; i < len(a.balls); i++ {
		for j := i + 1; j < len(a.balls); j++ {
			b1, b2 := &a.balls[i], &a.balls[j]
			if !b1.Overlaps(b2) {
				continue
			}
			kind, src, dst, ok := resolve(b1, b2)
			if !ok {
				continue
			}
			rep.Collisions = append(rep.Collisions, Collision{
				Tick:        a.tick,
				Interaction: kind,
				I:           i,
				J:           j,
				Source:      src.ID,
				Target:      dst.ID,
				SourceKind:  src.Kind,
				TargetKind:  dst.Kind,
			})
		}
	}

	rep.Removed = a.prune()
	return rep
}

// prune drops dead balls in a single pass, preserving order.
func (a *Arena) prune() []ball.Ball {
	var removed []ball.Ball
	kept := a.balls[:0]
	for _, b := range a.balls {
		if b.Dead() {
			removed = append(removed, b)
			a.ids.Destroy(b.ID)
			continue
		}
		kept = append(kept, b)
	}
	clear(a.balls[len(kept):])
	a.balls = kept
	return removed
}

// Digest fingerprints the full arena state. Two runs from the same seed and
// configuration produce the same digest at every tick.
func (a *Arena) Digest() uint64 {
	buf := make([]byte, 0, 8+len(a.balls)*21)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(a.width))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(a.height))
	for i := range a.balls {
		b := &a.balls[i]
		buf = append(buf, byte(b.Kind))
		for _, f := range [...]float32{b.Radius, b.Position[0], b.Position[1], b.Velocity[0], b.Velocity[1]} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return xxh3.Hash(buf)
}
