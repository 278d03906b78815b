package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bigball/bigball/internal/ball"
	"github.com/go-gl/mathgl/mgl32"
)

const swapScenario = `
name: repellent swap
width: 100
height: 80
balls:
  - {kind: repellent, radius: 6, x: 50, y: 50}
  - {kind: Repellent, radius: 4, x: 56, y: 53, note: overlaps the first}
  - {kind: monster, radius: 12, x: 10, y: 10, dx: 3, dy: 3}
  - {kind: regular, radius: 5, x: 80, y: 20, dx: -0.5, dy: 0.25}
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(swapScenario))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if s.Name != "repellent swap" || s.Width != 100 || s.Height != 80 || s.Count() != 4 {
		t.Fatalf("scenario = %+v", s)
	}

	balls, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantKinds := []ball.Kind{ball.Repellent, ball.Repellent, ball.Monster, ball.Regular}
	for i, k := range wantKinds {
		if balls[i].Kind != k {
			t.Fatalf("ball %d kind = %s, want %s", i, balls[i].Kind, k)
		}
	}
	if balls[2].Velocity != (mgl32.Vec2{}) {
		t.Fatalf("monster velocity = %v, want zero", balls[2].Velocity)
	}
	if balls[3].Velocity != (mgl32.Vec2{-0.5, 0.25}) || balls[3].Position != (mgl32.Vec2{80, 20}) {
		t.Fatalf("regular = %+v", balls[3])
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "width: [", "parse scenario"},
		{"no size", "balls: []", "must be positive"},
		{"unknown kind", "width: 10\nheight: 10\nballs:\n  - {kind: sticky, radius: 1}", "unknown ball kind"},
		{"negative radius", "width: 10\nheight: 10\nballs:\n  - {kind: regular, radius: -2}", "negative radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.yaml")
	if err := os.WriteFile(path, []byte(swapScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Count() != 4 {
		t.Fatalf("count = %d, want 4", s.Count())
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
