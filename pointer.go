package glowfield

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPointerInterval is the minimum time between two applied pointer
// samples.
const DefaultPointerInterval = 50 * time.Millisecond

// PointerBuffer coalesces high-frequency pointer input. Offer stores the most
// recent sample; Apply promotes it to the current value only when the minimum
// interval has elapsed since the previous promotion. Timestamps are explicit,
// so behavior is deterministic under test.
//
// Offer may be called from an input goroutine while Apply runs on the frame
// goroutine.
type PointerBuffer struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	current Vec2
	pending Vec2
	dirty   bool
}

// NewPointerBuffer creates a buffer starting at initial. A non-positive
// interval applies every sample on the next frame.
func NewPointerBuffer(initial Vec2, interval time.Duration) *PointerBuffer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &PointerBuffer{
		limiter: rate.NewLimiter(limit, 1),
		current: clampPointer(initial),
	}
}

// Offer records a new pointer sample, replacing any unapplied one. Samples
// are clamped to [0,1]×[0,1].
func (b *PointerBuffer) Offer(p Vec2) {
	b.mu.Lock()
	b.pending = clampPointer(p)
	b.dirty = true
	b.mu.Unlock()
}

// Apply promotes the pending sample if one exists and the interval since the
// last promotion has elapsed at now. It returns the current pointer and
// whether it changed.
func (b *PointerBuffer) Apply(now time.Time) (Vec2, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dirty || !b.limiter.AllowN(now, 1) {
		return b.current, false
	}
	b.current = b.pending
	b.dirty = false
	return b.current, true
}

// Current returns the last applied pointer without promoting anything.
func (b *PointerBuffer) Current() Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Pending reports whether an unapplied sample is waiting.
func (b *PointerBuffer) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func clampPointer(p Vec2) Vec2 {
	return Vec2{X: clamp01(p.X), Y: clamp01(p.Y)}
}
