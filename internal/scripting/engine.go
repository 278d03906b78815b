package scripting

import (
	"fmt"
	"math/rand"

	"github.com/bigball/bigball/internal/ball"
	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM running a spawn script.
// Single-goroutine access only.
//
// A spawn script defines
//
//	function spawn_balls(width, height)
//	  return { {kind = "regular", radius = 8, x = 10, y = 20, dx = 0.5, dy = -0.5}, ... }
//	end
//
// and may call rand_int(lo, hi) (half-open) and rand_float() ([0, 1)), both
// backed by the run's seeded generator.
type Engine struct {
	vm  *lua.LState
	rng *rand.Rand
	log *zap.Logger
}

// NewEngine creates a Lua VM, registers the random helpers and runs the
// script at path.
func NewEngine(path string, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	e := newEngine(rng, log)
	if err := e.vm.DoFile(path); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug("loaded lua script", zap.String("file", path))
	return e, nil
}

// NewEngineFromString is NewEngine for an in-memory script.
func NewEngineFromString(src string, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	e := newEngine(rng, log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(rng *rand.Rand, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, rng: rng, log: log}
	vm.SetGlobal("rand_int", vm.NewFunction(e.randInt))
	vm.SetGlobal("rand_float", vm.NewFunction(e.randFloat))
	return e
}

func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) randInt(L *lua.LState) int {
	lo := L.CheckInt(1)
	hi := L.CheckInt(2)
	if hi <= lo {
		L.ArgError(2, "hi must be greater than lo")
		return 0
	}
	L.Push(lua.LNumber(lo + e.rng.Intn(hi-lo)))
	return 1
}

func (e *Engine) randFloat(L *lua.LState) int {
	L.Push(lua.LNumber(e.rng.Float64()))
	return 1
}

// SpawnBalls calls spawn_balls(width, height) and converts the returned
// array into balls, in array order.
func (e *Engine) SpawnBalls(width, height int) ([]ball.Ball, error) {
	fn := e.vm.GetGlobal("spawn_balls")
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("lua function spawn_balls not defined")
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(width), lua.LNumber(height)); err != nil {
		return nil, fmt.Errorf("spawn_balls: %w", err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	list, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("spawn_balls returned %s, want table", ret.Type())
	}

	balls := make([]ball.Ball, 0, list.Len())
	for i := 1; i <= list.Len(); i++ {
		entry, ok := list.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("spawn_balls entry %d is not a table", i)
		}
		kind, err := ball.ParseKind(lua.LVAsString(entry.RawGetString("kind")))
		if err != nil {
			return nil, fmt.Errorf("spawn_balls entry %d: %w", i, err)
		}
		radius := number(entry, "radius")
		if radius < 0 {
			return nil, fmt.Errorf("spawn_balls entry %d: negative radius %v", i, radius)
		}
		balls = append(balls, ball.New(kind, radius,
			mgl32.Vec2{number(entry, "x"), number(entry, "y")},
			mgl32.Vec2{number(entry, "dx"), number(entry, "dy")},
		))
	}
	e.log.Debug("lua spawn", zap.Int("balls", len(balls)))
	return balls, nil
}

// number reads a numeric field, treating anything else as zero.
func number(t *lua.LTable, field string) float32 {
	if n, ok := t.RawGetString(field).(lua.LNumber); ok {
		return float32(n)
	}
	return 0
}
