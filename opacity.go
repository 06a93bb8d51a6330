package glowfield

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// OpacitySignal is a live scalar in [0, 1] sampled once per frame.
type OpacitySignal interface {
	Opacity() float64
}

// ConstantOpacity is an OpacitySignal with a fixed value.
type ConstantOpacity float64

// Opacity returns the constant clamped to [0, 1].
func (c ConstantOpacity) Opacity() float64 { return clamp01(float64(c)) }

// OpacityFunc adapts a function to OpacitySignal.
type OpacityFunc func() float64

// Opacity calls f and clamps the result to [0, 1].
func (f OpacityFunc) Opacity() float64 { return clamp01(f()) }

// sampleOpacity reads sig, treating nil as fully opaque.
func sampleOpacity(sig OpacitySignal) float64 {
	if sig == nil {
		return 1
	}
	return clamp01(sig.Opacity())
}

// Keyframe maps a scroll progress value to an opacity.
type Keyframe struct {
	Progress float64
	Opacity  float64
}

// DefaultScrollKeyframes fade the background from full to 40% over the first
// 30% of the page.
var DefaultScrollKeyframes = []Keyframe{
	{Progress: 0, Opacity: 1},
	{Progress: 0.1, Opacity: 0.8},
	{Progress: 0.2, Opacity: 0.6},
	{Progress: 0.3, Opacity: 0.4},
}

// ScrollFade is an OpacitySignal driven by scroll progress. Between keyframes
// the value follows Ease; outside the keyframe range it holds the nearest
// endpoint. SetProgress and Opacity may be called from different goroutines.
type ScrollFade struct {
	keys     []Keyframe
	ease     ease.TweenFunc
	progress atomic.Uint64
}

// NewScrollFade creates a ScrollFade over keys (sorted by progress). A nil
// easing function means linear interpolation. Empty keys use
// DefaultScrollKeyframes.
func NewScrollFade(keys []Keyframe, fn ease.TweenFunc) *ScrollFade {
	if len(keys) == 0 {
		keys = DefaultScrollKeyframes
	}
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Progress < sorted[j].Progress })
	if fn == nil {
		fn = ease.Linear
	}
	return &ScrollFade{keys: sorted, ease: fn}
}

// SetProgress records the current scroll progress, clamped to [0, 1].
func (f *ScrollFade) SetProgress(p float64) {
	f.progress.Store(math.Float64bits(clamp01(p)))
}

// Progress returns the last recorded scroll progress.
func (f *ScrollFade) Progress() float64 {
	return math.Float64frombits(f.progress.Load())
}

// Opacity evaluates the keyframe curve at the current progress.
func (f *ScrollFade) Opacity() float64 {
	return clamp01(f.At(f.Progress()))
}

// At evaluates the keyframe curve at progress p.
func (f *ScrollFade) At(p float64) float64 {
	keys := f.keys
	if p <= keys[0].Progress {
		return keys[0].Opacity
	}
	last := keys[len(keys)-1]
	if p >= last.Progress {
		return last.Opacity
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Progress > p }) - 1
	a, b := keys[i], keys[i+1]
	span := b.Progress - a.Progress
	if span <= 0 {
		return b.Opacity
	}
	v := f.ease(float32(p-a.Progress), float32(a.Opacity), float32(b.Opacity-a.Opacity), float32(span))
	return float64(v)
}

// DefaultFadeInDuration is how long a freshly mounted canvas takes to reach
// full opacity, in seconds.
const DefaultFadeInDuration = 1.0

// FadeIn tweens a composite alpha from 0 to 1. Call Update once per frame.
type FadeIn struct {
	tween *gween.Tween
	value float64
	done  bool
}

// NewFadeIn creates a fade over duration seconds. A non-positive duration
// yields a fade that is already complete.
func NewFadeIn(duration float64, fn ease.TweenFunc) *FadeIn {
	if duration <= 0 {
		return &FadeIn{value: 1, done: true}
	}
	if fn == nil {
		fn = ease.Linear
	}
	return &FadeIn{tween: gween.New(0, 1, float32(duration), fn)}
}

// Update advances the fade by dt seconds and returns the new alpha.
func (f *FadeIn) Update(dt float64) float64 {
	if f.done {
		return f.value
	}
	v, finished := f.tween.Update(float32(dt))
	f.value = clamp01(float64(v))
	if finished {
		f.value = 1
		f.done = true
	}
	return f.value
}

// Value returns the current alpha.
func (f *FadeIn) Value() float64 { return f.value }

// Done reports whether the fade has completed.
func (f *FadeIn) Done() bool { return f.done }
