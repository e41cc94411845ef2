package layer

import (
	"fmt"
	"math"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	preloaderMotes  = 80
	preloaderFillMs = 2500
	preloaderHoldMs = 300
	preloaderFadeMs = 600
	preloaderTotal  = preloaderFillMs + preloaderHoldMs + preloaderFadeMs

	preloaderRise  = 0.15 // px per frame unit
	preloaderBars  = 32
	preloaderTrack = 32 // progress bar cells
)

var barRunes = []rune("▁▂▃▄▅▆▇█")

// Preloader is the opening phase: rising dust, the title, a sound wave and a progress
// bar that fills with an ease-out over 2.5s before the phase fades
type Preloader struct {
	introPhase
	pool *entity.Pool
	time float64
}

func NewPreloader() *Preloader {
	return &Preloader{pool: entity.NewPool(preloaderMotes)}
}

func (p *Preloader) Name() string { return IntroPreloader }

func (p *Preloader) Mount(env Env) error {
	if err := p.mount(env, 1); err != nil {
		return err
	}
	p.time = 0
	p.pool.Reset()
	for i := 0; i < preloaderMotes; i++ {
		pos := vmath.V2(p.rng.Float64()*p.size.X, p.rng.Float64()*p.size.Y)
		p.pool.Add(&entity.Entity{
			Pos:        pos,
			Anchor:     pos,
			Size:       p.rng.Range(0.5, 2.5),
			Brightness: 1,
			PulseSpeed: p.rng.Range(0.5, 2),
			Phase:      p.rng.Float64() * 2 * math.Pi,
			Color:      dustColor(p.rng.Float64(), 0.6, 2),
			Shape:      entity.MoteShape{Depth: 1},
		})
	}
	return nil
}

func (p *Preloader) Unmount() { p.pool.Reset() }

// Fill is the eased progress bar value in [0, 1]
func (p *Preloader) Fill() float64 {
	return easeOutCubic(p.window(0, preloaderFillMs))
}

func (p *Preloader) Step(f clock.Frame) {
	dt := f.Delta
	p.time += 0.015 * dt
	for _, e := range p.pool.Items() {
		e.Pos.Y -= preloaderRise * dt
		e.Pos.X += math.Sin(p.time+e.Phase) * 0.1 * dt
		if e.Pos.Y < -10 {
			e.Pos = vmath.V2(p.rng.Float64()*p.size.X, p.size.Y+10)
		}
		e.Opacity = 0.3 + 0.7*math.Abs(math.Sin(p.time*e.PulseSpeed+e.Phase))
	}
	p.advance(f, IntroPreloader, preloaderTotal)
}

func (p *Preloader) Render(_ render.Context, c *render.Canvas) {
	ctr := p.center()
	skyWash(c, ctr, math.Max(p.size.X, p.size.Y)*0.6, func(t float64) (render.RGB, float64) {
		return render.Lerp(violet, pink, t), 0.08 * (1 - t)
	})
	alpha := 1 - p.window(preloaderFillMs+preloaderHoldMs, preloaderFadeMs)
	if alpha <= 0 {
		return
	}

	for _, e := range p.pool.Items() {
		if e.Color == amber && e.Size > 1.8 {
			c.Glow(e.Pos, e.Size*c.VP.CellW, amber, 0.15*e.Opacity*alpha)
		}
		c.Glyph(e.Pos, dustRune(e.Size), e.Color, 0.8*e.Opacity*alpha)
	}

	title := below(c, ctr, -4)
	caption(c, below(c, title, -1), "Entering", render.RGB{R: 180, G: 170, B: 210}, 0.7*alpha)
	c.Glow(title, 10*c.VP.CellW, amber, 0.2*alpha)
	caption(c, title, "つむの宇宙", amber, alpha)
	caption(c, below(c, title, 1), "Tsumu's Universe", violet, 0.8*alpha)

	p.renderWave(c, below(c, ctr, 2), alpha)

	fill := p.Fill()
	bar := below(c, ctr, 4)
	filled := int(math.Round(fill * preloaderTrack))
	tx, ty := c.VP.ToCell(bar)
	for i := 0; i < preloaderTrack; i++ {
		if i < filled {
			c.Buf.Set(tx-preloaderTrack/2+i, ty, '━', amber, amber, render.BlendAlphaFg, alpha)
		} else {
			c.Buf.Set(tx-preloaderTrack/2+i, ty, '─', violet, violet, render.BlendAlphaFg, 0.35*alpha)
		}
	}
	caption(c, below(c, bar, 1), fmt.Sprintf("LOADING  %3d%%", int(fill*100)), render.RGB{R: 160, G: 150, B: 190}, 0.6*alpha)
}

// renderWave draws the bars bottom-aligned on the row of base. Bars swell toward the
// middle and grow with the fill
func (p *Preloader) renderWave(c *render.Canvas, base vmath.Vec2, alpha float64) {
	fill := p.Fill()
	bx, by := c.VP.ToCell(base)
	x0 := bx - preloaderBars
	for i := 0; i < preloaderBars; i++ {
		d := math.Abs(float64(i)-preloaderBars/2) / (preloaderBars / 2)
		h := (16+(1-d)*48)*(0.3+0.7*fill) + math.Sin(p.time*5+float64(i)*0.3)*8
		h = math.Max(h, 2) / c.VP.CellH // rows
		col := render.Lerp(amber, violet, d)
		for r := 0; float64(r) < h; r++ {
			glyph := '█'
			if part := h - float64(r); part < 1 {
				glyph = barRunes[int(part*float64(len(barRunes)-1))]
			}
			c.Buf.Set(x0+2*i, by-r, glyph, col, col, render.BlendAlphaFg, 0.8*alpha)
		}
	}
}
