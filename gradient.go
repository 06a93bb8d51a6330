package glowfield

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop is a color at a normalized offset along a gradient.
type GradientStop struct {
	Offset float64
	Color  Color
}

// colorAt interpolates stops (sorted by offset) at t. Outside the stop range
// the nearest stop's color is held.
func colorAt(stops []GradientStop, t float64) Color {
	switch len(stops) {
	case 0:
		return Color{}
	case 1:
		return stops[0].Color
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.Offset {
			continue
		}
		a := stops[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
	}
	return stops[len(stops)-1].Color
}

// LinearGradient varies color along the segment From→To. Points project onto
// that axis; colors are held constant beyond either end.
type LinearGradient struct {
	From, To Vec2
	Stops    []GradientStop
}

// At returns the gradient color at normalized offset t.
func (g LinearGradient) At(t float64) Color {
	return colorAt(g.Stops, t)
}

// AtPoint returns the gradient color at pt.
func (g LinearGradient) AtPoint(pt Vec2) Color {
	return g.At(g.offset(pt))
}

func (g LinearGradient) offset(pt Vec2) float64 {
	axis := g.To.Sub(g.From)
	l2 := axis.X*axis.X + axis.Y*axis.Y
	if l2 == 0 {
		return 0
	}
	rel := pt.Sub(g.From)
	return (rel.X*axis.X + rel.Y*axis.Y) / l2
}

// RadialGradient varies color with distance from Center, reaching the last
// stop at Radius.
type RadialGradient struct {
	Center Vec2
	Radius float64
	Stops  []GradientStop
}

// At returns the gradient color at normalized radius t.
func (g RadialGradient) At(t float64) Color {
	return colorAt(g.Stops, t)
}

// AtPoint returns the gradient color at pt.
func (g RadialGradient) AtPoint(pt Vec2) Color {
	if g.Radius <= 0 {
		return g.At(1)
	}
	return g.At(pt.Sub(g.Center).Len() / g.Radius)
}

// HSLA builds a color from a hue in degrees, saturation and lightness in
// [0, 1], and an alpha, like CSS hsla().
func HSLA(hue, sat, light, alpha float64) Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := colorful.Hsl(hue, clamp01(sat), clamp01(light)).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: clamp01(alpha)}
}
