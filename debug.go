package glowfield

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// frameStats holds per-frame timings. Only logged when Config.Debug is set.
type frameStats struct {
	step   time.Duration
	render time.Duration
}

// logFrame writes timing stats for the last frame.
func (b *Background) logFrame(stats frameStats) {
	var frames uint64
	var clock float64
	if b.engine != nil {
		frames = b.engine.Frames()
		clock = b.engine.Clock()
	}
	b.log.Debug("frame",
		zap.Uint64("frame", frames),
		zap.Float64("clock", clock),
		zap.Float64("opacity", b.opacity),
		zap.Duration("step", stats.step),
		zap.Duration("render", stats.render),
		zap.Duration("total", stats.step+stats.render))
}

// overlayRefresh is how often the overlay text is rebuilt, in seconds.
const overlayRefresh = 0.5

// DebugOverlay draws FPS, TPS and the state of one Background in the
// top-left corner. The text is refreshed roughly every half second.
type DebugOverlay struct {
	bg    *Background
	img   *ebiten.Image
	text  string
	accum float64
}

// NewDebugOverlay creates an overlay reporting on bg. bg may be nil.
func NewDebugOverlay(bg *Background) *DebugOverlay {
	return &DebugOverlay{bg: bg, accum: overlayRefresh}
}

// SetBackground switches the reported Background, e.g. after a remount.
func (o *DebugOverlay) SetBackground(bg *Background) {
	o.bg = bg
	o.accum = overlayRefresh
}

// Update advances the refresh timer by dt seconds and rebuilds the text when
// due.
func (o *DebugOverlay) Update(dt float64) {
	o.accum += dt
	if o.accum < overlayRefresh {
		return
	}
	o.accum = 0
	o.text = overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), o.bg)
}

// Text returns the most recently built overlay text.
func (o *DebugOverlay) Text() string { return o.text }

// Draw paints the overlay onto dst.
func (o *DebugOverlay) Draw(dst *ebiten.Image) {
	if o.text == "" {
		return
	}
	if o.img == nil {
		// 180x64 fits five lines of debug font text.
		o.img = ebiten.NewImage(180, 64)
	}
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	dst.DrawImage(o.img, nil)
}

func overlayText(fps, tps float64, bg *Background) string {
	s := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
	switch {
	case bg == nil:
		return s
	case bg.Disabled():
		return s + "\nbackground: disabled"
	case bg.Engine() == nil:
		return s + "\nbackground: static"
	}
	e := bg.Engine()
	return s + fmt.Sprintf("\nparticles: %d\nclock: %.3f\nopacity: %.2f",
		len(e.Particles()), e.Clock(), bg.Opacity())
}
