package glowfield

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Canvas is a Surface the Background owns: it can be reallocated on resize,
// exposes its backing image for compositing, and is released on teardown.
type Canvas interface {
	Surface
	Resize(width, height int, scale float64) error
	Image() *ebiten.Image
	Release()
}

// Config controls how a Background is mounted. Zero fields fall back to the
// defaults documented on each field.
type Config struct {
	// ParticleCount fixes the number of particles. Zero applies the capacity
	// policy (ParticleCountFor) to LowPower and ReducedMotion.
	ParticleCount int
	// LowPower marks a constrained device: fewer particles and a half
	// resolution canvas.
	LowPower bool
	// ReducedMotion paints a static gradient once and never starts the frame
	// loop.
	ReducedMotion bool
	// Dynamics are the simulation constants. Zero uses DefaultDynamics.
	Dynamics Dynamics
	// Spawn controls particle initialization.
	Spawn SpawnConfig
	// PointerInterval is the minimum time between applied pointer samples.
	// Zero uses DefaultPointerInterval; negative applies every sample.
	PointerInterval time.Duration
	// Opacity is the scroll-derived fade sampled every frame. Nil is fully
	// opaque.
	Opacity OpacitySignal
	// FadeIn is the mount fade duration in seconds. Zero uses
	// DefaultFadeInDuration; negative disables the fade.
	FadeIn float64
	// NewCanvas allocates the drawing surface. Nil uses NewImageSurface.
	NewCanvas func(width, height int, scale float64) (Canvas, error)
	// Logger receives diagnostics. Nil discards them.
	Logger *zap.Logger
	// Debug logs per-frame step and render timings at debug level.
	Debug bool
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		Dynamics:        DefaultDynamics(),
		Spawn:           SpawnConfig{Velocity: DefaultVelocityRange, Size: DefaultSizeRange},
		PointerInterval: DefaultPointerInterval,
		FadeIn:          DefaultFadeInDuration,
	}
}

func (c Config) withDefaults() Config {
	if c.Dynamics == (Dynamics{}) {
		c.Dynamics = DefaultDynamics()
	}
	if c.PointerInterval == 0 {
		c.PointerInterval = DefaultPointerInterval
	} else if c.PointerInterval < 0 {
		c.PointerInterval = 0
	}
	if c.FadeIn == 0 {
		c.FadeIn = DefaultFadeInDuration
	}
	if c.NewCanvas == nil {
		c.NewCanvas = func(w, h int, scale float64) (Canvas, error) {
			return NewImageSurface(w, h, scale)
		}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// maxFrameDelta caps the wall-clock delta fed to the mount fade so a stalled
// window does not skip the fade.
const maxFrameDelta = 0.25

// Background is one mounted particle field: it owns an Engine, a Compositor,
// a canvas sized to the host viewport, and the frame loop that drives them.
// Everything it registers with the host is released by Unmount.
type Background struct {
	cfg  Config
	host Host
	log  *zap.Logger

	canvas Canvas
	comp   *Compositor
	engine *Engine
	loop   *FrameLoop
	fade   *FadeIn
	scale  float64

	handles []CallbackHandle

	resizeMu sync.Mutex
	pending  *Size

	opacity   float64
	lastFrame time.Time
	lastDraw  time.Time
	static    *LinearGradient
	stats     frameStats

	disabled bool
	mounted  bool
}

// Mount attaches a particle field to host. If no drawing surface can be
// acquired the Background disables itself: it registers nothing and draws
// nothing.
func Mount(host Host, cfg Config) *Background {
	cfg = cfg.withDefaults()
	b := &Background{
		cfg:     cfg,
		host:    host,
		log:     cfg.Logger,
		comp:    NewCompositor(),
		fade:    NewFadeIn(cfg.FadeIn, nil),
		opacity: sampleOpacity(cfg.Opacity),
		mounted: true,
	}

	size := host.Viewport()
	b.scale = RenderScale(cfg.LowPower, host.DeviceScale())
	canvas, err := cfg.NewCanvas(size.Width, size.Height, b.scale)
	if err != nil || canvas == nil {
		b.log.Debug("drawing surface unavailable, background disabled",
			zap.Int("width", size.Width), zap.Int("height", size.Height), zap.Error(err))
		b.disabled = true
		return b
	}
	b.canvas = canvas
	b.handles = append(b.handles, host.OnResize(b.onResize))

	if cfg.ReducedMotion {
		g := b.comp.RenderStatic(canvas)
		b.static = &g
		b.log.Debug("reduced motion: static backdrop painted")
		return b
	}

	count := cfg.ParticleCount
	if count == 0 {
		count = ParticleCountFor(cfg.LowPower, cfg.ReducedMotion)
	}
	bounds := canvas.Bounds()
	set := NewParticleSet(count, bounds, cfg.Spawn)
	pointer := NewPointerBuffer(neutralPointer, cfg.PointerInterval)
	b.engine = NewEngine(set, bounds, cfg.Dynamics, pointer)

	b.handles = append(b.handles, host.OnPointerMove(pointer.Offer))
	b.loop = NewFrameLoop(host, b.frame)
	b.loop.Start()

	b.log.Debug("background mounted",
		zap.Int("particles", count),
		zap.Float64("scale", b.scale),
		zap.Bool("lowPower", cfg.LowPower))
	return b
}

// Unmount stops the frame loop, deregisters every host listener and
// releases the canvas. Safe to call more than once.
func (b *Background) Unmount() {
	if !b.mounted {
		return
	}
	b.mounted = false
	if b.loop != nil {
		b.loop.Stop()
	}
	for _, h := range b.handles {
		h.Remove()
	}
	b.handles = nil
	if b.canvas != nil {
		b.canvas.Release()
		b.canvas = nil
	}
	b.log.Debug("background unmounted")
}

// onResize records the new viewport. While animating, the canvas is
// reallocated at the start of the next frame; a static backdrop is
// repainted immediately since no frame can be in progress.
func (b *Background) onResize(s Size) {
	b.resizeMu.Lock()
	b.pending = &s
	b.resizeMu.Unlock()
	if b.loop == nil {
		b.applyResize()
	}
}

func (b *Background) applyResize() {
	b.resizeMu.Lock()
	s := b.pending
	b.pending = nil
	b.resizeMu.Unlock()
	if s == nil || b.canvas == nil {
		return
	}

	b.scale = RenderScale(b.cfg.LowPower, b.host.DeviceScale())
	if err := b.canvas.Resize(s.Width, s.Height, b.scale); err != nil {
		b.log.Debug("resize skipped", zap.Int("width", s.Width), zap.Int("height", s.Height), zap.Error(err))
		return
	}
	if b.engine != nil {
		b.engine.SetBounds(b.canvas.Bounds())
	}
	if b.static != nil {
		g := b.comp.RenderStatic(b.canvas)
		b.static = &g
	}
}

// frame is the per-frame step registered with the host.
func (b *Background) frame(now time.Time) {
	t0 := time.Now()
	b.applyResize()

	b.fade.Update(frameDelta(&b.lastFrame, now))

	b.engine.Advance(now)
	t1 := time.Now()

	b.opacity = sampleOpacity(b.cfg.Opacity)
	b.comp.Render(b.canvas, b.engine.Snapshot(b.opacity))

	b.stats = frameStats{step: t1.Sub(t0), render: time.Since(t1)}
	if b.cfg.Debug {
		b.logFrame(b.stats)
	}
}

// frameDelta returns the seconds since *last, capped at maxFrameDelta, and
// records now. The first call returns 0.
func frameDelta(last *time.Time, now time.Time) float64 {
	dt := 0.0
	if !last.IsZero() {
		dt = min(max(now.Sub(*last).Seconds(), 0), maxFrameDelta)
	}
	*last = now
	return dt
}

// compositeAlpha returns the alpha the canvas is drawn with at now. A
// static backdrop has no frame loop, so its fade advances here and the
// scroll opacity applies to the whole canvas.
func (b *Background) compositeAlpha(now time.Time) float64 {
	if b.static == nil {
		return b.fade.Value()
	}
	b.fade.Update(frameDelta(&b.lastDraw, now))
	b.opacity = sampleOpacity(b.cfg.Opacity)
	return b.fade.Value() * b.opacity
}

// Draw composites the canvas over dst, stretched to dst's bounds and faded
// by compositeAlpha.
func (b *Background) Draw(dst *ebiten.Image) {
	if b.disabled || b.canvas == nil {
		return
	}
	alpha := b.compositeAlpha(time.Now())
	img := b.canvas.Image()
	if img == nil {
		return
	}
	src := img.Bounds()
	out := dst.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(out.Dx())/float64(src.Dx()), float64(out.Dy())/float64(src.Dy()))
	op.GeoM.Translate(float64(out.Min.X), float64(out.Min.Y))
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, &op)
}

// Engine returns the simulation engine, or nil when disabled or in reduced
// motion.
func (b *Background) Engine() *Engine { return b.engine }

// Loop returns the frame loop, or nil when disabled or in reduced motion.
func (b *Background) Loop() *FrameLoop { return b.loop }

// Canvas returns the owned drawing surface, or nil when disabled or
// unmounted.
func (b *Background) Canvas() Canvas { return b.canvas }

// Disabled reports whether surface acquisition failed at mount.
func (b *Background) Disabled() bool { return b.disabled }

// Mounted reports whether Unmount has not yet been called.
func (b *Background) Mounted() bool { return b.mounted }

// Opacity returns the most recently sampled opacity.
func (b *Background) Opacity() float64 { return b.opacity }

// FadeAlpha returns the current mount fade alpha.
func (b *Background) FadeAlpha() float64 { return b.fade.Value() }

// StaticGradient returns the reduced-motion backdrop and true if one was
// painted.
func (b *Background) StaticGradient() (LinearGradient, bool) {
	if b.static == nil {
		return LinearGradient{}, false
	}
	return *b.static, true
}
