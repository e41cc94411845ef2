package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/layer"
	"github.com/lixenwraith/living-cosmos/ui"
)

// Phase is a step of the opening sequence; the cosmos itself is PhaseComplete
type Phase uint8

const (
	PhaseLoading Phase = iota
	PhaseTouch
	PhaseSignature
	PhaseExpansion
	PhaseComplete
)

var phaseNames = [...]string{"loading", "touch", "signature", "expansion", "complete"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseLayer is the layer whose report ends each intro phase
var phaseLayer = [...]string{
	PhaseLoading:   layer.IntroPreloader,
	PhaseTouch:     layer.IntroTouch,
	PhaseSignature: layer.IntroSignature,
	PhaseExpansion: layer.IntroExpansion,
}

func (a *App) Phase() Phase { return a.phase }

// layersFor builds fresh layers for an intro phase. Complete reuses the cosmos set
func (a *App) layersFor(p Phase) []layer.Layer {
	switch p {
	case PhaseLoading:
		return []layer.Layer{layer.NewPreloader()}
	case PhaseTouch:
		return []layer.Layer{layer.NewTouchUniverse()}
	case PhaseSignature:
		return []layer.Layer{layer.NewStardustSignature(a.touch)}
	case PhaseExpansion:
		return []layer.Layer{layer.NewExpansion()}
	default:
		return a.cosmos
	}
}

// start mounts the first phase: the intro when enabled, the cosmos otherwise
func (a *App) start() {
	first := PhaseComplete
	if a.opts.Scene.Intro {
		first = PhaseLoading
	}
	a.enterPhase(first)
}

// enterPhase unmounts the current set and mounts the layers of p. The overlay only
// takes input once the cosmos is up
func (a *App) enterPhase(p Phase) {
	from := a.phase
	a.phase = p
	a.overlay.SetHidden(p != PhaseComplete)
	if err := a.comp.Switch(a.env(), a.layersFor(p)...); err != nil {
		// a zero-sized terminal mounts nothing; the first resize retries
		a.logger.Warn("phase mount failed", zap.Stringer("phase", p), zap.Error(err))
	}
	a.metrics.layers.Store(int64(len(a.comp.Mounted())))
	a.metrics.phase.Set(p.String())
	a.logger.Info("phase entered", zap.Stringer("from", from), zap.Stringer("to", p))
}

// onIntro advances when the layer of the current phase reports. Reports from a layer
// that is no longer current are dropped
func (a *App) onIntro(ev event.Event) {
	p, ok := ev.Payload.(*event.IntroPayload)
	if !ok || p == nil || a.phase >= PhaseComplete || p.Layer != phaseLayer[a.phase] {
		return
	}
	if a.phase == PhaseTouch {
		a.touch = p.Touch
	}
	a.enterPhase(a.phase + 1)
}

// onWish opens the message prompt for a click on the message star
func (a *App) onWish(event.Event) {
	if a.phase != PhaseComplete {
		return
	}
	a.overlay.Open(ui.ModeMessage)
}
