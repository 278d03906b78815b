package data

import (
	"fmt"
	"os"

	"github.com/bigball/bigball/internal/ball"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// BallEntry is one ball of a fixed scenario layout.
type BallEntry struct {
	Kind   string  `yaml:"kind"` // regular, monster, repellent
	Radius float32 `yaml:"radius"`
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	DX     float32 `yaml:"dx"` // ignored for monsters
	DY     float32 `yaml:"dy"`
	Note   string  `yaml:"note"`
}

// Scenario fixes the arena size and the exact starting balls, in order.
type Scenario struct {
	Name   string      `yaml:"name"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Balls  []BallEntry `yaml:"balls"`
}

// LoadScenario loads a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes scenario YAML and checks every ball kind.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scenario size %dx%d: must be positive", s.Width, s.Height)
	}
	if _, err := s.Build(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Build converts the entries into balls. Monster velocity is dropped.
func (s *Scenario) Build() ([]ball.Ball, error) {
	balls := make([]ball.Ball, 0, len(s.Balls))
	for i, e := range s.Balls {
		kind, err := ball.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("scenario ball %d: %w", i, err)
		}
		if e.Radius < 0 {
			return nil, fmt.Errorf("scenario ball %d: negative radius %v", i, e.Radius)
		}
		balls = append(balls, ball.New(kind, e.Radius, mgl32.Vec2{e.X, e.Y}, mgl32.Vec2{e.DX, e.DY}))
	}
	return balls, nil
}

// Count returns the number of balls in the scenario.
func (s *Scenario) Count() int {
	return len(s.Balls)
}
