package glowfield

// syntheticKind distinguishes queued synthetic events.
type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticScroll
)

// syntheticEvent is a single injected input event. Pointer events carry
// screen coordinates and are normalized exactly like real cursor input.
type syntheticEvent struct {
	kind             syntheticKind
	screenX, screenY float64
	progress         float64
}

// InjectPointer queues a cursor move to the given screen coordinates. The
// event is consumed on the next frame's input pass.
func (w *Window) InjectPointer(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind:    syntheticPointer,
		screenX: x, screenY: y,
	})
}

// InjectScroll queues a jump of the scroll progress to p.
func (w *Window) InjectScroll(p float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind:     syntheticScroll,
		progress: p,
	})
}

// InjectSweep queues a cursor path from (fromX, fromY) to (toX, toY),
// linearly interpolated so the whole sweep consumes `frames` frames.
// Minimum frames is 2 (start and end).
func (w *Window) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.InjectPointer(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		w.InjectPointer(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	w.InjectPointer(toX, toY)
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (real input should be skipped).
func (w *Window) processInjectedInput() bool {
	if len(w.injectQueue) == 0 {
		return false
	}
	evt := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		w.movePointer(evt.screenX, evt.screenY)
	case syntheticScroll:
		w.SetScroll(evt.progress)
	}
	return true
}
