package app

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/input"
	"github.com/Faultbox/depthview/internal/logger"
	"github.com/Faultbox/depthview/internal/viewer"
)

// Key bindings.
const (
	keyLit        = sdl.K_1
	keyWireframe  = sdl.K_2
	keyDepth      = sdl.K_3
	keyCycleColor = sdl.K_c
	keyScreenshot = sdl.K_F12
	keyQuit       = sdl.K_ESCAPE
)

// Phase is the lifecycle stage of the viewer.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseLoading
	PhaseViewing
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseLoading:
		return "loading"
	case PhaseViewing:
		return "viewing"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type screenshotRequester interface {
	Request()
}

// bindKeys maps the mode panel and screenshot keys onto r.
func bindKeys(r *input.Router, modes *viewer.ModeController, shots screenshotRequester) {
	setMode := func(m viewer.Mode) func() {
		return func() {
			if err := modes.SetMode(m); err != nil {
				logger.Warn("mode switch failed", zap.Stringer("mode", m), zap.Error(err))
			}
		}
	}

	r.Bind(keyLit, setMode(viewer.ModeLit))
	r.Bind(keyWireframe, setMode(viewer.ModeWireframe))
	r.Bind(keyDepth, setMode(viewer.ModeDepth))
	r.Bind(keyCycleColor, modes.CycleWireframeColor)
	r.Bind(keyScreenshot, shots.Request)
}
