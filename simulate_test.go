package glowfield

import (
	"math"
	"testing"
)

func quietDynamics() Dynamics {
	return Dynamics{Influence: 0.01, NoiseAmplitude: 0, Damping: 0.98, ClockStep: 0.002}
}

func TestStepDampingConvergesToZero(t *testing.T) {
	bounds := Rect{Width: 800, Height: 600}
	set := NewParticleSet(5, bounds, SpawnConfig{Velocity: Range{Min: -3, Max: 3}, Rand: seededRand()})
	d := Dynamics{Influence: 0, NoiseAmplitude: 0, Damping: 0.98, ClockStep: 0.002}

	clock := 0.0
	for i := 0; i < 10000; i++ {
		clock += d.ClockStep
		Step(set, clock, Vec2{X: 0.9, Y: 0.1}, bounds, d)
	}
	for i, p := range set {
		if v := p.Vel.Len(); v > 1e-12 {
			t.Errorf("particle %d velocity = %g, want ~0", i, v)
		}
	}
}

func TestStepVelocityStaysBounded(t *testing.T) {
	bounds := Rect{Width: 800, Height: 600}
	set := NewParticleSet(5, bounds, SpawnConfig{Rand: seededRand()})
	d := DefaultDynamics()

	// Steady state under the largest forcing: |pull| + |noise| per axis,
	// divided by (1 - damping), scaled by damping.
	maxForce := 0.5*d.Influence + d.NoiseAmplitude
	limit := d.Damping * maxForce / (1 - d.Damping)

	clock := 0.0
	for i := 0; i < 20000; i++ {
		clock += d.ClockStep
		Step(set, clock, Vec2{X: 1, Y: 0}, bounds, d)
		for j, p := range set {
			if math.Abs(p.Vel.X) > limit+0.15 || math.Abs(p.Vel.Y) > limit+0.15 {
				t.Fatalf("step %d particle %d velocity %+v exceeds %g", i, j, p.Vel, limit)
			}
		}
	}
}

func TestStepPositionsStayInBounds(t *testing.T) {
	bounds := Rect{Width: 320, Height: 240}
	set := NewParticleSet(16, bounds, SpawnConfig{Velocity: Range{Min: -50, Max: 50}, Rand: seededRand()})
	d := Dynamics{Influence: 40, NoiseAmplitude: 7, Damping: 0.99, ClockStep: 0.37}

	pointers := []Vec2{{0, 0}, {1, 1}, {0, 1}, {1, 0}, {0.5, 0.5}}
	clock := 0.0
	for i := 0; i < 5000; i++ {
		clock += d.ClockStep
		Step(set, clock, pointers[i%len(pointers)], bounds, d)
		for j, p := range set {
			if !bounds.Contains(p.Pos.X, p.Pos.Y) {
				t.Fatalf("step %d particle %d at %+v outside [0,%g)x[0,%g)",
					i, j, p.Pos, bounds.Width, bounds.Height)
			}
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	bounds := Rect{Width: 1024, Height: 768}
	a := NewParticleSet(5, bounds, SpawnConfig{Rand: seededRand()})
	b := a.Clone()
	d := DefaultDynamics()

	pointers := []Vec2{{0.1, 0.9}, {0.7, 0.3}, {0.5, 0.5}, {1, 1}}
	clock := 0.0
	for i := 0; i < 2000; i++ {
		clock += d.ClockStep
		ptr := pointers[(i/37)%len(pointers)]
		Step(a, clock, ptr, bounds, d)
		Step(b, clock, ptr, bounds, d)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("particle %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStepEmptySet(t *testing.T) {
	Step(nil, 1, Vec2{X: 1, Y: 1}, Rect{Width: 10, Height: 10}, DefaultDynamics())
	Step(ParticleSet{}, 1, Vec2{}, Rect{}, DefaultDynamics())
}

func TestStepNeutralPointerScenario(t *testing.T) {
	bounds := Rect{Width: 200, Height: 200}
	set := ParticleSet{
		{Pos: Vec2{0, 0}, Size: 1},
		{Pos: Vec2{50, 50}, Size: 1},
		{Pos: Vec2{100, 0}, Size: 1},
	}
	want := set.Clone()

	Step(set, 0.002, Vec2{X: 0.5, Y: 0.5}, bounds, quietDynamics())

	for i := range set {
		if set[i].Vel != (Vec2{}) {
			t.Errorf("particle %d velocity = %+v, want zero", i, set[i].Vel)
		}
		if set[i].Pos != want[i].Pos {
			t.Errorf("particle %d position = %+v, want %+v", i, set[i].Pos, want[i].Pos)
		}
	}
}

func TestStepPointerPullScenario(t *testing.T) {
	bounds := Rect{Width: 200, Height: 200}
	set := ParticleSet{
		{Pos: Vec2{0, 0}},
		{Pos: Vec2{50, 50}},
		{Pos: Vec2{100, 0}},
	}

	// Pointer at the right edge: pull = (1 - 0.5) * 0.01 on x only.
	Step(set, 0.002, Vec2{X: 1, Y: 0.5}, bounds, quietDynamics())

	wantVX := 0.98 * 0.005
	for i, p := range set {
		if !approx(p.Vel.X, wantVX, 1e-15) || p.Vel.Y != 0 {
			t.Errorf("particle %d velocity = %+v, want (%g, 0)", i, p.Vel, wantVX)
		}
	}
	wantX := []float64{wantVX, 50 + wantVX, 100 + wantVX}
	wantY := []float64{0, 50, 0}
	for i, p := range set {
		if !approx(p.Pos.X, wantX[i], 1e-12) || !approx(p.Pos.Y, wantY[i], 1e-12) {
			t.Errorf("particle %d position = %+v, want (%g, %g)", i, p.Pos, wantX[i], wantY[i])
		}
	}
}

func TestStepNoisePhaseByIndex(t *testing.T) {
	bounds := Rect{Width: 1000, Height: 1000}
	set := ParticleSet{{Pos: Vec2{500, 500}}, {Pos: Vec2{500, 500}}}
	d := Dynamics{NoiseAmplitude: 0.01, Damping: 1}
	clock := 2.0

	Step(set, clock, Vec2{X: 0.5, Y: 0.5}, bounds, d)

	for i, p := range set {
		fi := float64(i)
		wantX := math.Sin(clock*0.5+fi*0.3) * 0.01
		wantY := math.Cos(clock*0.5+fi*0.2) * 0.01
		if !approx(p.Vel.X, wantX, 1e-15) || !approx(p.Vel.Y, wantY, 1e-15) {
			t.Errorf("particle %d velocity = %+v, want (%g, %g)", i, p.Vel, wantX, wantY)
		}
	}
	if set[0].Vel == set[1].Vel {
		t.Error("particles should desynchronize by index")
	}
}

func TestStepWrapsRightEdge(t *testing.T) {
	bounds := Rect{Width: 200, Height: 200}
	set := ParticleSet{{Pos: Vec2{199.5, 100}, Vel: Vec2{1, 0}}}
	d := Dynamics{Damping: 1}

	Step(set, 0, Vec2{X: 0.5, Y: 0.5}, bounds, d)

	if !approx(set[0].Pos.X, 0.5, 1e-9) {
		t.Errorf("x = %g, want 0.5", set[0].Pos.X)
	}
	if set[0].Pos.Y != 100 {
		t.Errorf("y = %g, want 100", set[0].Pos.Y)
	}
}

func TestStepWrapsWithDefaultDamping(t *testing.T) {
	bounds := Rect{Width: 200, Height: 200}
	set := ParticleSet{{Pos: Vec2{199.5, 100}, Vel: Vec2{1, 0}}}

	Step(set, 0, Vec2{X: 0.5, Y: 0.5}, bounds, quietDynamics())

	// 199.5 + 0.98 = 200.48, wrapped.
	if !approx(set[0].Pos.X, 0.48, 1e-9) {
		t.Errorf("x = %g, want 0.48", set[0].Pos.X)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, origin, size, want float64
	}{
		{0, 0, 100, 0},
		{99.5, 0, 100, 99.5},
		{100, 0, 100, 0},
		{100.5, 0, 100, 0.5},
		{-0.5, 0, 100, 99.5},
		{-100, 0, 100, 0},
		{250, 0, 100, 50},
		{-250, 0, 100, 50},
		{15, 10, 20, 15},
		{31, 10, 20, 11},
		{9, 10, 20, 29},
		{5, 3, 0, 3},
		{5, 3, -4, 3},
		{math.NaN(), 0, 10, 0},
		{math.Inf(1), 0, 10, 0},
	}
	for _, tt := range tests {
		got := wrap(tt.v, tt.origin, tt.size)
		if !approx(got, tt.want, 1e-9) {
			t.Errorf("wrap(%g, %g, %g) = %g, want %g", tt.v, tt.origin, tt.size, got, tt.want)
		}
	}
}

func TestWrapNeverReachesUpperEdge(t *testing.T) {
	// A tiny negative offset rounds up to size when shifted; it must map to
	// the lower edge instead.
	got := wrap(-1e-18, 0, 200)
	if got < 0 || got >= 200 {
		t.Errorf("wrap(-1e-18) = %g, want in [0, 200)", got)
	}
}
