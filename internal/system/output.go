package system

import (
	"time"

	"github.com/bigball/bigball/internal/arena"
	coresys "github.com/bigball/bigball/internal/core/system"
	"github.com/bigball/bigball/internal/render"
	"go.uber.org/zap"
)

// RenderSystem redraws the arena after every tick. Phase 2 (Output).
type RenderSystem struct {
	arena    *arena.Arena
	renderer render.Renderer
	log      *zap.Logger
	failed   bool
}

func NewRenderSystem(a *arena.Arena, r render.Renderer, log *zap.Logger) *RenderSystem {
	return &RenderSystem{arena: a, renderer: r, log: log}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) {
	err := s.renderer.Render(s.arena.Balls())
	switch {
	case err != nil && !s.failed:
		s.log.Warn("render failed", zap.Error(err))
		s.failed = true
	case err == nil && s.failed:
		s.log.Info("render recovered")
		s.failed = false
	}
}
