package arena

import (
	"strconv"

	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/core/ecs"
)

// Interaction identifies how a colliding pair was resolved.
type Interaction uint8

const (
	Absorb Interaction = iota + 1 // regular absorbs regular
	Devour                        // monster absorbs regular
	Repel                         // repellent reverses regular
	Swap                          // repellents trade places
	Halve                         // monster halves repellent
)

func (i Interaction) String() string {
	switch i {
	case Absorb:
		return "absorb"
	case Devour:
		return "devour"
	case Repel:
		return "repel"
	case Swap:
		return "swap"
	case Halve:
		return "halve"
	}
	return "interaction(" + strconv.Itoa(int(i)) + ")"
}

// Collision records one resolved pair. Source acted on Target: the absorber
// and the absorbed, the monster and its prey, the repellent and the regular
// it bounced, the monster and the repellent it halved. For Swap the pair is
// kept in scan order. I and J are the pair's indices in the tick's ball
// order, I < J.
type Collision struct {
	Tick        int
	Interaction Interaction
	I, J        int
	Source      ecs.EntityID
	Target      ecs.EntityID
	SourceKind  ball.Kind
	TargetKind  ball.Kind
}

// resolve applies the rule for the unordered kind pair of a and b. Monster
// pairs have no rule and report false.
func resolve(a, b *ball.Ball) (Interaction, *ball.Ball, *ball.Ball, bool) {
	if a.Kind == ball.Regular && b.Kind == ball.Regular {
		// Ties go to the second operand.
		if a.Radius > b.Radius {
			absorb(a, b)
			return Absorb, a, b, true
		}
		absorb(b, a)
		return Absorb, b, a, true
	}
	if monster, regular, ok := pick(a, b, ball.Monster, ball.Regular); ok {
		absorb(monster, regular)
		return Devour, monster, regular, true
	}
	if repellent, regular, ok := pick(a, b, ball.Repellent, ball.Regular); ok {
		regular.Velocity = regular.Velocity.Mul(-1)
		return Repel, repellent, regular, true
	}
	if a.Kind == ball.Repellent && b.Kind == ball.Repellent {
		a.Position, b.Position = b.Position, a.Position
		return Swap, a, b, true
	}
	if monster, repellent, ok := pick(a, b, ball.Monster, ball.Repellent); ok {
		repellent.Radius /= 2
		return Halve, monster, repellent, true
	}
	return 0, nil, nil, false
}

func absorb(larger, smaller *ball.Ball) {
	larger.Radius += smaller.Radius
	smaller.Radius = 0
}

// pick orders a and b as (kind x, kind y) when the pair matches in either order.
func pick(a, b *ball.Ball, x, y ball.Kind) (*ball.Ball, *ball.Ball, bool) {
	switch {
	case a.Kind == x && b.Kind == y:
		return a, b, true
	case a.Kind == y && b.Kind == x:
		return b, a, true
	}
	return nil, nil, false
}
