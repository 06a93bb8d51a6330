package glowfield

import "testing"

func TestColorAt(t *testing.T) {
	stops := []GradientStop{
		{Offset: 0, Color: Color{R: 0, A: 1}},
		{Offset: 0.5, Color: Color{R: 1, A: 1}},
		{Offset: 1, Color: Color{R: 0, A: 0}},
	}
	tests := []struct {
		t    float64
		want Color
	}{
		{-1, Color{R: 0, A: 1}},
		{0.25, Color{R: 0.5, A: 1}},
		{0.5, Color{R: 1, A: 1}},
		{0.75, Color{R: 0.5, A: 0.5}},
		{2, Color{R: 0, A: 0}},
	}
	for _, tt := range tests {
		got := colorAt(stops, tt.t)
		if !approx(got.R, tt.want.R, 1e-12) || !approx(got.A, tt.want.A, 1e-12) {
			t.Errorf("colorAt(%g) = %+v, want %+v", tt.t, got, tt.want)
		}
	}
	if got := colorAt(nil, 0.5); got != (Color{}) {
		t.Errorf("no stops = %+v", got)
	}
}

func TestLinearGradientAtPoint(t *testing.T) {
	g := LinearGradient{
		From:  Vec2{0, 0},
		To:    Vec2{100, 0},
		Stops: []GradientStop{{0, Color{R: 0, A: 1}}, {1, Color{R: 1, A: 1}}},
	}
	if got := g.AtPoint(Vec2{25, 80}); !approx(got.R, 0.25, 1e-12) {
		t.Errorf("AtPoint(25, 80).R = %g, want 0.25 (y ignored)", got.R)
	}
	if got := g.AtPoint(Vec2{-50, 0}); got.R != 0 {
		t.Errorf("before start = %g, want 0", got.R)
	}
	if got := g.AtPoint(Vec2{500, 0}); got.R != 1 {
		t.Errorf("past end = %g, want 1", got.R)
	}

	degenerate := LinearGradient{Stops: g.Stops}
	if got := degenerate.AtPoint(Vec2{9, 9}); got.R != 0 {
		t.Errorf("zero-length axis = %g, want first stop", got.R)
	}
}

func TestRadialGradientAtPoint(t *testing.T) {
	g := RadialGradient{
		Center: Vec2{10, 10},
		Radius: 10,
		Stops:  []GradientStop{{0, Color{A: 1}}, {1, Color{A: 0}}},
	}
	if got := g.AtPoint(Vec2{10, 10}); got.A != 1 {
		t.Errorf("center alpha = %g", got.A)
	}
	if got := g.AtPoint(Vec2{15, 10}); !approx(got.A, 0.5, 1e-12) {
		t.Errorf("half radius alpha = %g", got.A)
	}
	if got := g.AtPoint(Vec2{40, 10}); got.A != 0 {
		t.Errorf("outside alpha = %g", got.A)
	}
}

func TestHSLA(t *testing.T) {
	blue := HSLA(240, 1, 0.5, 0.7)
	if !approx(blue.R, 0, 1e-9) || !approx(blue.G, 0, 1e-9) || !approx(blue.B, 1, 1e-9) {
		t.Errorf("HSLA(240) = %+v, want pure blue", blue)
	}
	if blue.A != 0.7 {
		t.Errorf("alpha = %g", blue.A)
	}
	red := HSLA(360, 1, 0.5, 1)
	if !approx(red.R, 1, 1e-9) || !approx(red.B, 0, 1e-9) {
		t.Errorf("HSLA(360) = %+v, want red", red)
	}
	if got := HSLA(-120, 1, 0.5, 1); !approx(got.B, 1, 1e-9) {
		t.Errorf("HSLA(-120) = %+v, want blue", got)
	}
}
