package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/phanxgames/glowfield"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the field headless and print the final particle state as JSON",
		Long: `Run the particle simulation without a window for a number of frames and
print the final state as JSON. The output depends only on the flags, so the
same seed always prints the same particles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(cmd.Context(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.Int("frames", 0, "number of frames to simulate (default 600)")
	f.Int("fps", 0, "pace frames in real time at this rate (0 runs unpaced)")
	f.Float64("pointer-x", 0, "normalized pointer x held for the whole run (default 0.5)")
	f.Float64("pointer-y", 0, "normalized pointer y held for the whole run (default 0.5)")
	a.bind(f.Lookup("frames"), "simulate.frames")
	a.bind(f.Lookup("fps"), "simulate.fps")
	a.bind(f.Lookup("pointer-x"), "simulate.pointer_x")
	a.bind(f.Lookup("pointer-y"), "simulate.pointer_y")
	return cmd
}

type particleState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Size float64 `json:"size"`
}

type simulateResult struct {
	Seed      uint64          `json:"seed"`
	Frames    uint64          `json:"frames"`
	Clock     float64         `json:"clock"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Pointer   glowfield.Vec2  `json:"pointer"`
	Particles []particleState `json:"particles"`
}

// defaultSeed is used when no seed is configured, keeping output
// reproducible.
const defaultSeed = 1

func (a *app) simulate(ctx context.Context, out io.Writer) error {
	cfg := a.cfg
	seed := cfg.Field.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	bounds := glowfield.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}

	count := cfg.Field.Particles
	if count == 0 {
		count = glowfield.ParticleCountFor(cfg.Field.LowPower, cfg.Field.ReducedMotion)
	}
	set := glowfield.NewParticleSet(count, bounds, glowfield.SpawnConfig{
		Rand: rand.New(rand.NewPCG(seed, seed)),
	})
	pointer := glowfield.NewPointerBuffer(glowfield.Vec2{X: 0.5, Y: 0.5}, offIfZero(cfg.Field.PointerInterval))
	pointer.Offer(glowfield.Vec2{X: cfg.Simulate.PointerX, Y: cfg.Simulate.PointerY})
	engine := glowfield.NewEngine(set, bounds, glowfield.DefaultDynamics(), pointer)

	start := time.Now()
	var err error
	if cfg.Simulate.FPS > 0 {
		err = runPaced(ctx, engine, cfg.Simulate.Frames, time.Second/time.Duration(cfg.Simulate.FPS))
	} else {
		runUnpaced(engine, cfg.Simulate.Frames, start)
	}
	if err != nil {
		return err
	}
	a.log.Info("simulation complete",
		zap.Uint64("frames", engine.Frames()),
		zap.Int("particles", count),
		zap.Duration("elapsed", time.Since(start)))

	res := simulateResult{
		Seed:    seed,
		Frames:  engine.Frames(),
		Clock:   engine.Clock(),
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Pointer: pointer.Current(),
	}
	for _, p := range engine.Particles() {
		res.Particles = append(res.Particles, particleState{
			X: p.Pos.X, Y: p.Pos.Y, VX: p.Vel.X, VY: p.Vel.Y, Size: p.Size,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// runUnpaced drives frames back to back from a manual source with a
// 60 Hz synthetic clock.
func runUnpaced(engine *glowfield.Engine, frames int, start time.Time) {
	src := glowfield.NewManualSource(start, time.Second/60)
	loop := glowfield.NewFrameLoop(src, engine.Advance)
	loop.Start()
	defer loop.Stop()
	for i := 0; i < frames; i++ {
		src.Tick()
	}
}

// runPaced drives frames from a wall-clock ticker until the engine has
// advanced frames times or ctx is cancelled.
func runPaced(ctx context.Context, engine *glowfield.Engine, frames int, interval time.Duration) error {
	if frames <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var once sync.Once
	target := uint64(frames)
	loop := glowfield.NewFrameLoop(glowfield.NewTickerSource(ctx, interval), func(now time.Time) {
		if engine.Frames() >= target {
			return
		}
		engine.Advance(now)
		if engine.Frames() >= target {
			once.Do(func() { close(done) })
		}
	})
	loop.Start()
	defer loop.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("simulate: %w", ctx.Err())
	}
}
