package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/glowfield"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window with the particle background",
		Long: `Open a window with the particle background.

Scroll the mouse wheel to fade the field, press M to toggle reduced motion
and Esc to quit. With --script the window plays back a JSON test script and
closes when it finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run()
		},
	}
	f := cmd.Flags()
	f.Bool("reduced-motion", false, "paint the static gradient instead of animating")
	f.String("script", "", "JSON test script to play back")
	f.String("screenshot-dir", "", "directory for screenshots taken by scripts")
	f.Bool("debug", false, "show the stats overlay and log frame timings")
	a.bind(f.Lookup("reduced-motion"), "field.reduced_motion")
	a.bind(f.Lookup("script"), "window.script")
	a.bind(f.Lookup("screenshot-dir"), "window.screenshot_dir")
	a.bind(f.Lookup("debug"), "field.debug")
	return cmd
}

func (a *app) run() error {
	cfg := a.cfg

	var runner *glowfield.TestRunner
	if cfg.Window.Script != "" {
		data, err := os.ReadFile(cfg.Window.Script)
		if err != nil {
			return fmt.Errorf("read test script: %w", err)
		}
		if runner, err = glowfield.LoadTestScript(data); err != nil {
			return err
		}
	}

	win := glowfield.NewWindow(glowfield.WindowConfig{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Resizable:     cfg.Window.Resizable,
		ScreenshotDir: cfg.Window.ScreenshotDir,
		ShowStats:     cfg.Field.Debug,
		Logger:        a.log,
	})
	fade := glowfield.NewScrollFade(nil, nil)
	win.OnScroll(fade.SetProgress)
	if runner != nil {
		win.SetTestRunner(runner)
	}

	s := &session{
		a:       a,
		win:     win,
		fade:    fade,
		runner:  runner,
		reduced: cfg.Field.ReducedMotion,
	}
	win.OnUpdate = s.update
	defer s.unmount()

	a.log.Info("opening window",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Bool("script", runner != nil))
	return glowfield.Run(win)
}

// session owns the currently mounted background of a run and remounts it
// when reduced motion is toggled.
type session struct {
	a       *app
	win     *glowfield.Window
	fade    *glowfield.ScrollFade
	runner  *glowfield.TestRunner
	bg      *glowfield.Background
	reduced bool
}

// update runs before every window frame. The first call mounts the
// background, once the window has reported its device scale.
func (s *session) update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if s.runner != nil && s.runner.Done() {
		s.a.log.Info("test script finished")
		return ebiten.Termination
	}
	if s.bg == nil {
		s.mount()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.unmount()
		s.reduced = !s.reduced
		s.mount()
		s.a.log.Info("reduced motion toggled", zap.Bool("reducedMotion", s.reduced))
	}
	return nil
}

func (s *session) mount() {
	lowPower := s.a.lowPower(s.win.DeviceScale())
	s.bg = glowfield.Mount(s.win, s.a.fieldConfig(lowPower, s.reduced, s.fade))
	s.win.AddLayer(s.bg)
	if o := s.win.Overlay(); o != nil {
		o.SetBackground(s.bg)
	}
}

func (s *session) unmount() {
	if s.bg == nil {
		return
	}
	s.win.RemoveLayer(s.bg)
	s.bg.Unmount()
	s.bg = nil
}

// lowPower applies the configured override, then device detection.
func (a *app) lowPower(deviceScale float64) bool {
	if a.cfg.Field.LowPower {
		return true
	}
	return a.cfg.Field.DetectDevice && glowfield.DetectLowPower(runtime.GOOS, deviceScale)
}

// fieldConfig translates host configuration into a background Config.
// Zero durations in the file mean "off", unlike the library's zero values.
func (a *app) fieldConfig(lowPower, reduced bool, opacity glowfield.OpacitySignal) glowfield.Config {
	f := a.cfg.Field
	cfg := glowfield.DefaultConfig()
	cfg.ParticleCount = f.Particles
	cfg.LowPower = lowPower
	cfg.ReducedMotion = reduced
	cfg.Opacity = opacity
	cfg.Logger = a.log.Named("field")
	cfg.Debug = f.Debug
	cfg.PointerInterval = offIfZero(f.PointerInterval)
	cfg.FadeIn = offIfZero(f.FadeIn).Seconds()
	if f.Seed != 0 {
		cfg.Spawn.Rand = rand.New(rand.NewPCG(f.Seed, f.Seed))
	}
	return cfg
}

func offIfZero(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}
