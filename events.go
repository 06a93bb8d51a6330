package glowfield

import (
	"sync"
	"time"
)

// CallbackHandle allows removing a registered callback. The zero value is a
// no-op handle.
type CallbackHandle struct {
	once   *sync.Once
	remove func()
}

// Remove unregisters the callback so it no longer fires. Safe to call more
// than once.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.once.Do(h.remove)
}

func newHandle(remove func()) CallbackHandle {
	return CallbackHandle{once: new(sync.Once), remove: remove}
}

type handler[T any] struct {
	id uint32
	fn func(T)
}

// registry is an ordered callback list keyed by registration ID. Emit
// snapshots the list, so handlers may remove themselves while firing.
type registry[T any] struct {
	mu       sync.Mutex
	handlers []handler[T]
	nextID   uint32
}

func (r *registry[T]) add(fn func(T)) CallbackHandle {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, handler[T]{id: id, fn: fn})
	r.mu.Unlock()
	return newHandle(func() { r.removeID(id) })
}

func (r *registry[T]) removeID(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.handlers {
		if h.id == id {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) emit(v T) {
	r.mu.Lock()
	if len(r.handlers) == 0 {
		r.mu.Unlock()
		return
	}
	snapshot := make([]handler[T], len(r.handlers))
	copy(snapshot, r.handlers)
	r.mu.Unlock()

	for _, h := range snapshot {
		h.fn(v)
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Size is a viewport size in logical pixels.
type Size struct {
	Width, Height int
}

// FrameSource delivers the display refresh callback.
type FrameSource interface {
	OnFrame(fn func(now time.Time)) CallbackHandle
}

// Host is the page a Background is mounted into. It supplies the frame
// callback, pointer and resize notifications, and the viewport geometry.
type Host interface {
	FrameSource
	// Viewport returns the current logical viewport size.
	Viewport() Size
	// DeviceScale returns the display's device scale factor.
	DeviceScale() float64
	// OnPointerMove registers fn for normalized pointer positions.
	OnPointerMove(fn func(Vec2)) CallbackHandle
	// OnResize registers fn for viewport size changes.
	OnResize(fn func(Size)) CallbackHandle
}
