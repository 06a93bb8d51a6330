package glowfield

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// FrameLoop is a cancellable per-frame task. Start registers its step with a
// FrameSource; Stop deregisters it and waits for an in-flight step, so no
// step begins after Stop returns. Stop must not be called from inside the
// step itself.
type FrameLoop struct {
	src  FrameSource
	step func(now time.Time)

	mu      sync.Mutex // serializes steps against Stop
	running atomic.Bool
	handle  CallbackHandle
	frames  atomic.Uint64
}

// NewFrameLoop creates a stopped loop that will run step once per frame of
// src.
func NewFrameLoop(src FrameSource, step func(now time.Time)) *FrameLoop {
	return &FrameLoop{src: src, step: step}
}

// Start begins receiving frames. It reports false if the loop was already
// running.
func (l *FrameLoop) Start() bool {
	if !l.running.CompareAndSwap(false, true) {
		return false
	}
	l.handle = l.src.OnFrame(l.tick)
	return true
}

// Stop deregisters the frame callback. Safe to call on a stopped loop.
func (l *FrameLoop) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	l.handle.Remove()
	l.handle = CallbackHandle{}
	// Wait out a step that passed the running check before the swap.
	l.mu.Lock()
	l.mu.Unlock()
}

// Running reports whether the loop is registered for frames.
func (l *FrameLoop) Running() bool { return l.running.Load() }

// Frames returns the number of steps run.
func (l *FrameLoop) Frames() uint64 { return l.frames.Load() }

func (l *FrameLoop) tick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running.Load() {
		return
	}
	l.frames.Add(1)
	l.step(now)
}

// TickerSource is a FrameSource paced by a time.Ticker, for running the
// field without a display. Each registration owns one goroutine, which
// exits when the handle is removed or the context is cancelled.
type TickerSource struct {
	ctx      context.Context
	interval time.Duration
}

// NewTickerSource creates a source ticking every interval until ctx is done.
func NewTickerSource(ctx context.Context, interval time.Duration) *TickerSource {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerSource{ctx: ctx, interval: interval}
}

// OnFrame starts delivering ticks to fn. Removing the handle stops the
// ticker and waits for its goroutine to exit.
func (s *TickerSource) OnFrame(fn func(now time.Time)) CallbackHandle {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-stop:
				return
			case now := <-t.C:
				fn(now)
			}
		}
	}()
	return newHandle(func() {
		close(stop)
		<-done
	})
}

// ManualSource is a FrameSource advanced explicitly with Tick. It drives
// deterministic headless runs.
type ManualSource struct {
	frames registry[time.Time]
	now    time.Time
	dt     time.Duration
}

// NewManualSource creates a source whose clock starts at start and moves by
// dt per Tick.
func NewManualSource(start time.Time, dt time.Duration) *ManualSource {
	return &ManualSource{now: start, dt: dt}
}

// OnFrame registers fn.
func (s *ManualSource) OnFrame(fn func(now time.Time)) CallbackHandle {
	return s.frames.add(fn)
}

// Tick advances the clock and delivers one frame.
func (s *ManualSource) Tick() {
	s.now = s.now.Add(s.dt)
	s.frames.emit(s.now)
}

// Listeners returns the number of registered frame callbacks.
func (s *ManualSource) Listeners() int { return s.frames.len() }
