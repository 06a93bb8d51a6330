package glowfield

import "time"

// Engine owns the simulation state of one mounted field: the particle set,
// the simulation clock, the viewport bounds and the pointer buffer. Separate
// engines share nothing.
type Engine struct {
	set     ParticleSet
	clock   float64
	frames  uint64
	bounds  Rect
	dyn     Dynamics
	pointer *PointerBuffer
}

// NewEngine takes ownership of set. A nil pointer buffer gets a neutral one
// with DefaultPointerInterval.
func NewEngine(set ParticleSet, bounds Rect, dyn Dynamics, pointer *PointerBuffer) *Engine {
	if pointer == nil {
		pointer = NewPointerBuffer(neutralPointer, DefaultPointerInterval)
	}
	return &Engine{
		set:     set,
		bounds:  bounds,
		dyn:     dyn,
		pointer: pointer,
	}
}

// Advance runs one frame: promotes a due pointer sample, advances the clock
// by one fixed increment, then steps every particle.
func (e *Engine) Advance(now time.Time) {
	ptr, _ := e.pointer.Apply(now)
	e.clock += e.dyn.ClockStep
	e.frames++
	Step(e.set, e.clock, ptr, e.bounds, e.dyn)
}

// Particles returns the live particle set. Callers must not retain or
// modify it across frames.
func (e *Engine) Particles() ParticleSet { return e.set }

// Clock returns the simulation clock.
func (e *Engine) Clock() float64 { return e.clock }

// Frames returns the number of frames advanced.
func (e *Engine) Frames() uint64 { return e.frames }

// Bounds returns the wrap rectangle.
func (e *Engine) Bounds() Rect { return e.bounds }

// SetBounds changes the wrap rectangle. Positions are not renormalized;
// wrapping pulls stray particles back within a frame.
func (e *Engine) SetBounds(r Rect) { e.bounds = r }

// Pointer returns the engine's pointer buffer.
func (e *Engine) Pointer() *PointerBuffer { return e.pointer }

// Dynamics returns the step constants.
func (e *Engine) Dynamics() Dynamics { return e.dyn }

// Snapshot returns the paintable state at the given opacity.
func (e *Engine) Snapshot(opacity float64) Frame {
	return Frame{Particles: e.set, Clock: e.clock, Opacity: opacity}
}
