package glowfield

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Layer is anything the Window paints, back to front.
type Layer interface {
	Draw(dst *ebiten.Image)
}

// WindowConfig controls the host window.
type WindowConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ClearColor fills the screen before layers are drawn.
	ClearColor Color
	// ScrollStep is the scroll progress moved per wheel notch. Zero uses 0.02.
	ScrollStep float64
	// ScreenshotDir receives PNGs from Screenshot. Empty uses "screenshots".
	ScreenshotDir string
	// ShowStats draws a DebugOverlay on top of all layers.
	ShowStats bool
	Logger    *zap.Logger
}

const defaultScrollStep = 0.02

// Window is an ebiten.Game that plays the part of the page hosting a
// Background. It turns cursor movement into normalized pointer events, wheel
// movement into scroll progress, layout changes into resize events, and each
// Update into one frame callback.
type Window struct {
	cfg WindowConfig
	log *zap.Logger

	frames   registry[time.Time]
	pointers registry[Vec2]
	resizes  registry[Size]
	scrolls  registry[float64]

	size        Size
	deviceScale float64
	cursorX     int
	cursorY     int
	cursorSeen  bool
	scroll      float64

	layers  []Layer
	overlay *DebugOverlay
	scaleFn func() float64

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string

	// OnUpdate, if set, runs at the start of every Update. Returning an
	// error (including ebiten.Termination) ends the game.
	OnUpdate func() error
	// Now supplies frame timestamps. Nil uses time.Now.
	Now func() time.Time
}

// NewWindow creates a host window. The device scale starts at 1 and is
// read from the current monitor on every layout pass.
func NewWindow(cfg WindowConfig) *Window {
	if cfg.ScrollStep == 0 {
		cfg.ScrollStep = defaultScrollStep
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	w := &Window{
		cfg:         cfg,
		log:         cfg.Logger,
		size:        Size{Width: cfg.Width, Height: cfg.Height},
		deviceScale: 1,
		scaleFn:     monitorScale,
	}
	if cfg.ShowStats {
		w.overlay = NewDebugOverlay(nil)
	}
	return w
}

// Viewport returns the logical window size.
func (w *Window) Viewport() Size { return w.size }

// DeviceScale returns the monitor's device scale factor.
func (w *Window) DeviceScale() float64 { return w.deviceScale }

// OnFrame registers fn to run once per Update.
func (w *Window) OnFrame(fn func(now time.Time)) CallbackHandle { return w.frames.add(fn) }

// OnPointerMove registers fn for normalized cursor positions.
func (w *Window) OnPointerMove(fn func(Vec2)) CallbackHandle { return w.pointers.add(fn) }

// OnResize registers fn for window size changes.
func (w *Window) OnResize(fn func(Size)) CallbackHandle { return w.resizes.add(fn) }

// OnScroll registers fn for scroll progress changes in [0, 1].
func (w *Window) OnScroll(fn func(float64)) CallbackHandle { return w.scrolls.add(fn) }

// ScrollProgress returns the page scroll progress in [0, 1].
func (w *Window) ScrollProgress() float64 { return w.scroll }

// ListenerCounts returns the number of registered frame, pointer and resize
// callbacks.
func (w *Window) ListenerCounts() (frames, pointers, resizes int) {
	return w.frames.len(), w.pointers.len(), w.resizes.len()
}

// AddLayer appends l to the draw list.
func (w *Window) AddLayer(l Layer) {
	w.layers = append(w.layers, l)
}

// RemoveLayer removes l from the draw list.
func (w *Window) RemoveLayer(l Layer) {
	for i, c := range w.layers {
		if c == l {
			w.layers = append(w.layers[:i], w.layers[i+1:]...)
			return
		}
	}
}

// Overlay returns the stats overlay, or nil when ShowStats is off.
func (w *Window) Overlay() *DebugOverlay { return w.overlay }

// SetScroll moves the scroll progress to p (clamped) and notifies listeners
// when it changes.
func (w *Window) SetScroll(p float64) {
	p = clamp01(p)
	if p == w.scroll {
		return
	}
	w.scroll = p
	w.scrolls.emit(p)
}

// movePointer converts screen coordinates to a normalized pointer and
// notifies listeners.
func (w *Window) movePointer(x, y float64) {
	if w.size.Width <= 0 || w.size.Height <= 0 {
		return
	}
	w.pointers.emit(Vec2{
		X: clamp01(x / float64(w.size.Width)),
		Y: clamp01(y / float64(w.size.Height)),
	})
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.OnUpdate != nil {
		if err := w.OnUpdate(); err != nil {
			return err
		}
	}
	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	if !w.processInjectedInput() {
		w.pollInput()
	}

	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	w.frames.emit(now)

	if w.overlay != nil {
		w.overlay.Update(1 / float64(ebiten.TPS()))
	}
	return nil
}

// pollInput reads the real cursor and wheel.
func (w *Window) pollInput() {
	x, y := ebiten.CursorPosition()
	if !w.cursorSeen || x != w.cursorX || y != w.cursorY {
		w.cursorSeen = true
		w.cursorX, w.cursorY = x, y
		w.movePointer(float64(x), float64(y))
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		// Wheel up is positive; scrolling down the page moves progress forward.
		w.SetScroll(w.scroll - dy*w.cfg.ScrollStep)
	}
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(w.cfg.ClearColor.ToNRGBA())
	for _, l := range w.layers {
		l.Draw(screen)
	}
	if w.overlay != nil {
		w.overlay.Draw(screen)
	}
	w.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The logical screen follows the window; a
// size or device scale change is announced to resize listeners so they can
// reallocate at the new resolution.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := Size{Width: outsideWidth, Height: outsideHeight}
	scale := w.scaleFn()
	if s != w.size || scale != w.deviceScale {
		w.size = s
		w.deviceScale = scale
		w.resizes.emit(s)
	}
	return outsideWidth, outsideHeight
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		if f := m.DeviceScaleFactor(); f > 0 {
			return f
		}
	}
	return 1
}

// Run opens the window and blocks until it is closed. A clean exit through
// ebiten.Termination returns nil.
func Run(w *Window) error {
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	if w.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
