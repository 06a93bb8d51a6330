package glowfield

import (
	"math/rand/v2"
)

// Particle holds per-particle simulation state. Size is drawn once at
// creation and only scales the glow pulse.
type Particle struct {
	Pos  Vec2
	Vel  Vec2
	Size float64
}

// ParticleSet is the ordered particle store. Index order is both the draw
// order and the curve-connection order; the last particle connects back to
// the first. Its length is fixed for the lifetime of one mount.
type ParticleSet []Particle

// Default initialization ranges.
var (
	DefaultVelocityRange = Range{Min: -0.15, Max: 0.15}
	DefaultSizeRange     = Range{Min: 0.5, Max: 2.0}
)

// Particle counts selected by the capacity policy.
const (
	ReducedParticleCount = 3
	FullParticleCount    = 5
)

// SpawnConfig controls how NewParticleSet distributes particles.
type SpawnConfig struct {
	// Velocity is the symmetric range each velocity component is drawn from.
	Velocity Range
	// Size is the range of the per-particle pulse amplitude multiplier.
	Size Range
	// Rand is the random source. Nil uses the package-level generator.
	Rand *rand.Rand
}

// NewParticleSet creates count particles with uniformly random positions
// inside bounds, velocities and sizes drawn from cfg. Zero-valued ranges in
// cfg fall back to DefaultVelocityRange and DefaultSizeRange. A negative
// count yields an empty set.
func NewParticleSet(count int, bounds Rect, cfg SpawnConfig) ParticleSet {
	if count < 0 {
		count = 0
	}
	if cfg.Velocity == (Range{}) {
		cfg.Velocity = DefaultVelocityRange
	}
	if cfg.Size == (Range{}) {
		cfg.Size = DefaultSizeRange
	}

	xs := Range{Min: bounds.X, Max: bounds.X + bounds.Width}
	ys := Range{Min: bounds.Y, Max: bounds.Y + bounds.Height}

	set := make(ParticleSet, count)
	for i := range set {
		p := &set[i]
		p.Pos = Vec2{X: xs.Random(cfg.Rand), Y: ys.Random(cfg.Rand)}
		p.Vel = Vec2{X: cfg.Velocity.Random(cfg.Rand), Y: cfg.Velocity.Random(cfg.Rand)}
		p.Size = cfg.Size.Random(cfg.Rand)
	}
	return set
}

// Clone returns an independent copy of the set.
func (s ParticleSet) Clone() ParticleSet {
	if s == nil {
		return nil
	}
	out := make(ParticleSet, len(s))
	copy(out, s)
	return out
}

// ParticleCountFor implements the capacity policy: constrained devices or a
// reduced-motion preference get ReducedParticleCount, everything else
// FullParticleCount.
func ParticleCountFor(lowPower, reducedMotion bool) int {
	if lowPower || reducedMotion {
		return ReducedParticleCount
	}
	return FullParticleCount
}

// lowPowerScaleThreshold is the device scale factor below which a display is
// treated as low capability.
const lowPowerScaleThreshold = 1.5

// DetectLowPower is the default device-capability heuristic: mobile
// platforms and displays with a device scale factor under 1.5 count as low
// power. It is only a default; hosts may set Config.LowPower directly.
func DetectLowPower(goos string, deviceScale float64) bool {
	switch goos {
	case "android", "ios":
		return true
	}
	return deviceScale < lowPowerScaleThreshold
}

// RenderScale returns the drawing-surface resolution multiplier. Low-power
// devices render at half resolution; others at the device scale factor.
func RenderScale(lowPower bool, deviceScale float64) float64 {
	if lowPower {
		return 0.5
	}
	if deviceScale <= 0 {
		return 1
	}
	return deviceScale
}
