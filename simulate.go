package glowfield

import "math"

// Dynamics holds the numeric constants of the simulation step.
type Dynamics struct {
	// Influence scales the signed pointer offset (pointer - 0.5) added to
	// every velocity each frame.
	Influence float64
	// NoiseAmplitude scales the per-index sine/cosine perturbation.
	NoiseAmplitude float64
	// Damping multiplies velocity after forcing terms are added. Must lie in
	// (0, 1) for velocity to stay bounded.
	Damping float64
	// ClockStep is the fixed simulation-clock advance per frame.
	ClockStep float64
}

// DefaultDynamics returns the tuned constants of the background field.
func DefaultDynamics() Dynamics {
	return Dynamics{
		Influence:      0.01,
		NoiseAmplitude: 0.01,
		Damping:        0.98,
		ClockStep:      0.002,
	}
}

// neutralPointer is the pointer position that exerts no attraction.
var neutralPointer = Vec2{X: 0.5, Y: 0.5}

// Step advances every particle in set by one frame in place, using clock as
// the noise phase and pointer as the normalized attraction source. Positions
// wrap toroidally into bounds. Step is pure arithmetic: no randomness, no
// allocation, and an empty set is a no-op.
func Step(set ParticleSet, clock float64, pointer Vec2, bounds Rect, d Dynamics) {
	pull := pointer.Sub(neutralPointer).Scale(d.Influence)
	phase := clock * 0.5

	for i := range set {
		p := &set[i]
		fi := float64(i)

		p.Vel = p.Vel.Add(pull)
		p.Vel.X += math.Sin(phase+fi*0.3) * d.NoiseAmplitude
		p.Vel.Y += math.Cos(phase+fi*0.2) * d.NoiseAmplitude
		p.Vel = p.Vel.Scale(d.Damping)

		p.Pos = p.Pos.Add(p.Vel)
		p.Pos.X = wrap(p.Pos.X, bounds.X, bounds.Width)
		p.Pos.Y = wrap(p.Pos.Y, bounds.Y, bounds.Height)
	}
}

// wrap maps v into [origin, origin+size). A non-positive size collapses the
// axis onto origin.
func wrap(v, origin, size float64) float64 {
	if size <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return origin
	}
	r := math.Mod(v-origin, size)
	if r < 0 {
		r += size
	}
	// Adding size to a tiny negative remainder can round up to size itself.
	if r >= size {
		r = 0
	}
	if out := origin + r; out < origin+size {
		return out
	}
	return origin
}
