package system_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigball/bigball/internal/arena"
	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/core/event"
	coresys "github.com/bigball/bigball/internal/core/system"
	"github.com/bigball/bigball/internal/persist"
	"github.com/bigball/bigball/internal/render"
	"github.com/bigball/bigball/internal/system"
	"github.com/bigball/bigball/internal/system/mocks"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func still(kind ball.Kind, radius, x, y float32) ball.Ball {
	return ball.New(kind, radius, mgl32.Vec2{x, y}, mgl32.Vec2{})
}

func newArena(t *testing.T, balls ...ball.Ball) *arena.Arena {
	t.Helper()
	a, err := arena.NewWithBalls(200, 200, balls)
	if err != nil {
		t.Fatalf("NewWithBalls: %v", err)
	}
	return a
}

func TestPipelineDeliversEventsNextTick(t *testing.T) {
	a := newArena(t,
		still(ball.Regular, 10, 50, 50),
		still(ball.Regular, 6, 60, 50),
		still(ball.Monster, 12, 150, 150),
	)
	bus := event.NewBus()
	var out bytes.Buffer

	runner := coresys.NewRunner()
	runner.Register(system.NewRenderSystem(a, render.NewTextRenderer(&out, false), zap.NewNop()))
	runner.Register(system.NewSimulationSystem(a, bus, zap.NewNop()))
	runner.Register(system.NewEventDispatchSystem(bus))
	stats := system.NewStatsSystem(bus)

	runner.Tick(time.Millisecond)

	wantFrame := "Regular Ball: Position (50, 50), Radius 16\n" +
		"Monster Ball: Position (150, 150), Radius 12\n"
	if out.String() != wantFrame {
		t.Fatalf("frame = %q, want %q", out.String(), wantFrame)
	}
	if n := stats.Interactions("absorb"); n != 0 {
		t.Fatalf("absorb seen in the same tick: %d", n)
	}

	runner.TickPhase(coresys.PhaseEvents, 0)

	if n := stats.Interactions("absorb"); n != 1 {
		t.Fatalf("absorb = %d, want 1", n)
	}
	if n := stats.Removed(ball.Regular); n != 1 {
		t.Fatalf("regular removed = %d, want 1", n)
	}
	last := stats.LastTick()
	if last.Tick != 1 || last.Survivors != 2 || last.Regular != 1 || last.Finished {
		t.Fatalf("last tick = %+v", last)
	}
	if last.Digest != a.Digest() {
		t.Fatalf("digest = %x, want %x", last.Digest, a.Digest())
	}
	if got := stats.Summary(); got != "[absorb=1]" {
		t.Fatalf("summary = %q", got)
	}
}

func TestStatsSummaryKeepsFirstSeenOrder(t *testing.T) {
	bus := event.NewBus()
	stats := system.NewStatsSystem(bus)
	for _, i := range []arena.Interaction{arena.Repel, arena.Absorb, arena.Repel, arena.Halve} {
		event.Emit(bus, event.CollisionResolved{Collision: arena.Collision{Interaction: i}})
	}
	bus.SwapBuffers()
	bus.DispatchAll()

	if got := stats.Summary(); got != "[repel=2 absorb=1 halve=1]" {
		t.Fatalf("summary = %q", got)
	}
	if len(stats.Fields()) == 0 {
		t.Fatalf("no summary fields")
	}
}

func TestSimulationSystemIdleWhenFinished(t *testing.T) {
	a := newArena(t, still(ball.Monster, 12, 50, 50))
	bus := event.NewBus()
	sim := system.NewSimulationSystem(a, bus, zap.NewNop())

	sim.Update(time.Millisecond)

	if a.Tick() != 0 {
		t.Fatalf("finished arena advanced to tick %d", a.Tick())
	}
	if bus.Pending() != 0 {
		t.Fatalf("finished arena emitted %d events", bus.Pending())
	}
}

type brokenRenderer struct{ calls int }

func (r *brokenRenderer) Render([]ball.Ball) error { r.calls++; return errors.New("tty gone") }
func (r *brokenRenderer) Close() error             { return nil }

func TestRenderSystemWarnsOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := newArena(t, still(ball.Regular, 5, 50, 50))
	r := &brokenRenderer{}
	s := system.NewRenderSystem(a, r, zap.New(core))

	s.Update(0)
	s.Update(0)

	if r.calls != 2 {
		t.Fatalf("render calls = %d, want 2", r.calls)
	}
	if n := logs.FilterMessage("render failed").Len(); n != 1 {
		t.Fatalf("render warnings = %d, want 1", n)
	}
}

func testRun() persist.Run {
	return persist.Run{
		ID:        uuid.New(),
		Source:    "random",
		Seed:      7,
		Width:     200,
		Height:    200,
		Regular:   1,
		Monster:   1,
		StartedAt: time.Unix(1700000000, 0),
	}
}

func TestHistoryRecordsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRunStore(ctrl)
	run := testRun()
	ctx := context.Background()

	a := newArena(t,
		still(ball.Regular, 20, 50, 50),
		still(ball.Monster, 5, 60, 50),
	)
	bus := event.NewBus()
	history := system.NewHistorySystem(store, run, bus, 10, zap.NewNop())

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSimulationSystem(a, bus, zap.NewNop()))
	runner.Register(history)

	store.EXPECT().StartRun(gomock.Any(), run).Return(nil)
	if err := history.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	runner.Tick(time.Millisecond)
	if !a.IsFinished() {
		t.Fatalf("arena not finished after devour")
	}
	runner.TickPhase(coresys.PhaseEvents, 0)
	if history.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", history.Pending())
	}

	var rows []persist.CollisionRow
	var summary persist.RunSummary
	store.EXPECT().AppendCollisions(gomock.Any(), run.ID, gomock.Len(1)).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, r []persist.CollisionRow) error {
			rows = append(rows, r...)
			return nil
		})
	store.EXPECT().FinishRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s persist.RunSummary) error {
			summary = s
			return nil
		})

	if err := history.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// A second close is a no-op.
	if err := history.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if len(rows) != 1 || rows[0].Interaction != "devour" || rows[0].SourceKind != "monster" || rows[0].TargetKind != "regular" || rows[0].Tick != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	if summary.ID != run.ID || summary.Ticks != 1 || summary.Survivors != 1 || !summary.Finished || summary.Digest != a.Digest() {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestHistoryRetriesFailedFlush(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRunStore(ctrl)
	run := testRun()
	bus := event.NewBus()
	history := system.NewHistorySystem(store, run, bus, 1, zap.NewNop())

	store.EXPECT().StartRun(gomock.Any(), gomock.Any()).Return(nil)
	if err := history.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	event.Emit(bus, event.CollisionResolved{Collision: arena.Collision{Tick: 1, Interaction: arena.Swap}})
	bus.SwapBuffers()
	bus.DispatchAll()

	gomock.InOrder(
		store.EXPECT().AppendCollisions(gomock.Any(), run.ID, gomock.Len(1)).Return(errors.New("db down")),
		store.EXPECT().AppendCollisions(gomock.Any(), run.ID, gomock.Len(1)).Return(nil),
	)

	history.Update(0)
	if history.Pending() != 1 {
		t.Fatalf("pending after failed flush = %d, want 1", history.Pending())
	}
	history.Update(0)
	if history.Pending() != 0 {
		t.Fatalf("pending after retry = %d, want 0", history.Pending())
	}
}

func TestHistoryIdleUntilStarted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRunStore(ctrl)
	bus := event.NewBus()
	history := system.NewHistorySystem(store, testRun(), bus, 1, zap.NewNop())

	event.Emit(bus, event.CollisionResolved{Collision: arena.Collision{Tick: 1, Interaction: arena.Repel}})
	bus.SwapBuffers()
	bus.DispatchAll()

	// No store calls are expected: the controller fails the test on any.
	history.Update(0)
	if err := history.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
