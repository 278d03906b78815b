package ball

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bigball/bigball/internal/core/ecs"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the fixed behavioral category of a ball.
type Kind uint8

const (
	Regular Kind = iota
	Monster
	Repellent
)

// Kinds lists every kind in creation order.
var Kinds = [...]Kind{Regular, Monster, Repellent}

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Monster:
		return "monster"
	case Repellent:
		return "repellent"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool { return k <= Repellent }

// ParseKind accepts the lower-case names returned by String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular":
		return Regular, nil
	case "monster":
		return Monster, nil
	case "repellent":
		return Repellent, nil
	}
	return 0, fmt.Errorf("unknown ball kind %q", s)
}

// Ball is a circular entity in the arena. A ball with Radius <= 0 is dead
// and is pruned by the arena at the end of the tick it died in.
type Ball struct {
	ID       ecs.EntityID
	Kind     Kind
	Radius   float32
	Position mgl32.Vec2
	Velocity mgl32.Vec2
}

// New builds a ball of the given kind. Monsters never move, so their
// velocity is always zero regardless of vel.
func New(kind Kind, radius float32, pos, vel mgl32.Vec2) Ball {
	if kind == Monster {
		vel = mgl32.Vec2{}
	}
	return Ball{Kind: kind, Radius: radius, Position: pos, Velocity: vel}
}

// Dead reports whether the ball has been absorbed or shrunk to nothing.
func (b *Ball) Dead() bool { return b.Radius <= 0 }

// Advance moves the ball by its velocity and reflects each velocity axis
// whose leading edge crossed a wall. Position is not pulled back inside.
// Monsters do not move.
func (b *Ball) Advance(width, height int) {
	switch b.Kind {
	case Regular, Repellent:
		b.Position = b.Position.Add(b.Velocity)
		if crossesWall(b.Position.X(), b.Radius, float32(width)) {
			b.Velocity[0] = -b.Velocity[0]
		}
		if crossesWall(b.Position.Y(), b.Radius, float32(height)) {
			b.Velocity[1] = -b.Velocity[1]
		}
	}
}

func crossesWall(pos, radius, extent float32) bool {
	return pos-radius < 0 || pos+radius > extent
}

// AdjustPosition clamps a monster's centre to [radius, extent-radius] on
// both axes. When the arena is narrower than the ball the lower bound wins.
// Other kinds are left untouched.
func (b *Ball) AdjustPosition(width, height int) {
	if b.Kind != Monster {
		return
	}
	b.Position = mgl32.Vec2{
		clamp(b.Position.X(), b.Radius, float32(width)),
		clamp(b.Position.Y(), b.Radius, float32(height)),
	}
}

func clamp(pos, radius, extent float32) float32 {
	return math32.Max(radius, math32.Min(extent-radius, pos))
}

// Overlaps reports whether the two balls intersect. Touching is not overlap.
func (b *Ball) Overlaps(o *Ball) bool {
	d := b.Position.Sub(o.Position)
	return math32.Sqrt(d.X()*d.X()+d.Y()*d.Y()) < b.Radius+o.Radius
}

// Describe returns the display name of the ball's kind.
func (b *Ball) Describe() string {
	switch b.Kind {
	case Regular:
		return "Regular Ball"
	case Monster:
		return "Monster Ball"
	case Repellent:
		return "Repellent Ball"
	}
	return "Ball"
}

// String renders the per-tick status line for the ball.
func (b *Ball) String() string {
	return b.Describe() + ": Position (" + FormatFloat(b.Position.X()) + ", " +
		FormatFloat(b.Position.Y()) + "), Radius " + FormatFloat(b.Radius)
}

// FormatFloat prints v in its shortest round-trip form ("12", "0.5").
func FormatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
