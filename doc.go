// Package glowfield is a mouse-reactive particle background for [Ebitengine].
//
// A handful of particles drift across the viewport, pulled by the pointer and
// nudged by a deterministic noise term. Each frame the field is painted as
// one smooth closed curve threaded through every particle plus a pulsing
// radial glow per particle, over a low-alpha overlay that leaves motion
// trails behind.
//
// # Quick start
//
// The simplest way to get started is [Run] with a [Window], which plays the
// part of the hosting page:
//
//	win := glowfield.NewWindow(glowfield.WindowConfig{
//		Title: "Portfolio", Width: 1280, Height: 720, Resizable: true,
//	})
//	fade := glowfield.NewScrollFade(nil, nil)
//	win.OnScroll(fade.SetProgress)
//
//	bg := glowfield.Mount(win, glowfield.Config{Opacity: fade})
//	defer bg.Unmount()
//	win.AddLayer(bg)
//
//	if err := glowfield.Run(win); err != nil {
//		log.Fatal(err)
//	}
//
// # Pieces
//
// The simulation is split so each part can be driven on its own:
//
//   - [ParticleSet] and [NewParticleSet] hold and initialize the particles.
//   - [Step] advances a set by one frame; it is pure arithmetic.
//   - [Engine] owns one set, the simulation clock and a [PointerBuffer].
//   - [Compositor] paints a [Frame] onto any [Surface]; [ImageSurface] is
//     the Ebitengine implementation.
//   - [FrameLoop] is the start/stop task that runs the engine once per
//     frame of a [FrameSource] ([Window], [TickerSource] or [ManualSource]).
//   - [Background] ties them together for one mount and releases every
//     registration on [Background.Unmount].
//
// With [Config.ReducedMotion] set, the frame loop never starts; a static
// two-stop gradient is painted once instead.
//
// [Ebitengine]: https://ebitengine.org
package glowfield
