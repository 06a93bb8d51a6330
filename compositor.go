package glowfield

import "math"

// Palette used by the compositor.
var (
	TrailColor  = RGBA255(10, 10, 20, 0.1)
	Purple      = RGBA255(76, 29, 149, 1)
	Blue        = RGBA255(59, 130, 246, 1)
	StaticStart = RGBA255(30, 20, 60, 1)
	StaticEnd   = RGBA255(20, 30, 70, 1)
)

// Frame is the state the compositor paints.
type Frame struct {
	Particles ParticleSet
	Clock     float64
	Opacity   float64
}

// Compositor paints particle frames: a low-alpha trail overlay, one smooth
// closed curve through every particle, and a pulsing radial glow per
// particle.
type Compositor struct {
	// Trail is blended over the whole surface before drawing, partially
	// erasing the previous frame.
	Trail Color
	// StrokeWidth is the curve width in logical pixels.
	StrokeWidth float64
	// StrokeAlpha scales the opacity signal for the curve.
	StrokeAlpha float64
	// GlowCoreAlpha and GlowMidAlpha scale the opacity signal for the
	// center and midpoint glow stops.
	GlowCoreAlpha float64
	GlowMidAlpha  float64
	// PulseAmplitude scales the per-particle radius oscillation.
	PulseAmplitude float64

	path Path
}

// NewCompositor returns a compositor with the default look.
func NewCompositor() *Compositor {
	return &Compositor{
		Trail:          TrailColor,
		StrokeWidth:    3,
		StrokeAlpha:    0.4,
		GlowCoreAlpha:  0.8,
		GlowMidAlpha:   0.3,
		PulseAmplitude: 5,
	}
}

// Render paints f onto s.
func (c *Compositor) Render(s Surface, f Frame) {
	bounds := s.Bounds()
	s.FillRect(bounds, c.Trail)

	if len(f.Particles) == 0 {
		return
	}

	BuildClosedCurve(&c.path, f.Particles)
	s.StrokePath(&c.path, StrokeStyle{
		Width:    c.StrokeWidth,
		Gradient: c.StrokeGradient(bounds, f.Opacity),
		Round:    true,
	})

	for i := range f.Particles {
		g := c.Glow(f.Particles[i], i, f.Clock, f.Opacity)
		if g.Radius <= 0 {
			continue
		}
		s.FillRadial(g)
	}
}

// StrokeGradient returns the horizontal purple→blue→purple curve gradient
// spanning bounds at the given opacity.
func (c *Compositor) StrokeGradient(bounds Rect, opacity float64) LinearGradient {
	a := opacity * c.StrokeAlpha
	return LinearGradient{
		From: Vec2{X: bounds.X, Y: bounds.Y},
		To:   Vec2{X: bounds.X + bounds.Width, Y: bounds.Y},
		Stops: []GradientStop{
			{Offset: 0, Color: Purple.WithAlpha(a)},
			{Offset: 0.5, Color: Blue.WithAlpha(a)},
			{Offset: 1, Color: Purple.WithAlpha(a)},
		},
	}
}

// BasePulse is the slowly oscillating glow radius shared by all particles.
func BasePulse(clock float64) float64 {
	return 15 + math.Sin(clock*1.5)*5
}

// PulseRadius returns the glow radius of particle i.
func (c *Compositor) PulseRadius(p Particle, i int, clock float64) float64 {
	return BasePulse(clock) + math.Sin(clock*2+float64(i)*0.5)*c.PulseAmplitude*p.Size
}

// Glow returns the radial gradient painted around particle i. Hues drift
// through the blue-purple range with time and index.
func (c *Compositor) Glow(p Particle, i int, clock, opacity float64) RadialGradient {
	fi := float64(i)
	hueCore := 240 + math.Sin(clock+fi)*30
	hueMid := 280 + math.Cos(clock+fi)*30
	return RadialGradient{
		Center: p.Pos,
		Radius: c.PulseRadius(p, i, clock),
		Stops: []GradientStop{
			{Offset: 0, Color: HSLA(hueCore, 0.8, 0.6, opacity*c.GlowCoreAlpha)},
			{Offset: 0.5, Color: HSLA(hueMid, 0.9, 0.5, opacity*c.GlowMidAlpha)},
			{Offset: 1, Color: Purple.WithAlpha(0)},
		},
	}
}

// StaticGradient returns the reduced-motion backdrop for bounds: a diagonal
// two-stop gradient. It depends only on bounds.
func StaticGradient(bounds Rect) LinearGradient {
	return LinearGradient{
		From: Vec2{X: bounds.X, Y: bounds.Y},
		To:   Vec2{X: bounds.X + bounds.Width, Y: bounds.Y + bounds.Height},
		Stops: []GradientStop{
			{Offset: 0, Color: StaticStart},
			{Offset: 1, Color: StaticEnd},
		},
	}
}

// RenderStatic paints the reduced-motion backdrop once and returns the
// gradient it used.
func (c *Compositor) RenderStatic(s Surface) LinearGradient {
	bounds := s.Bounds()
	g := StaticGradient(bounds)
	s.FillLinear(bounds, g)
	return g
}
