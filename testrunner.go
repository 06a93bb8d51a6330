package glowfield

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNoSteps = errors.New("no steps")

// scriptStep is one entry of a test script. Coordinates are in window pixels.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Progress float64 `json:"progress,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// apply performs the step against w and returns how many further frames to
// idle before the next step.
func (s scriptStep) apply(w *Window) int {
	switch s.Action {
	case "pointer":
		w.InjectPointer(s.X, s.Y)
	case "sweep":
		w.InjectSweep(s.FromX, s.FromY, s.ToX, s.ToY, s.Frames)
	case "scroll":
		w.InjectScroll(s.Progress)
	case "screenshot":
		w.Screenshot(s.Label)
	case "wait":
		return max(s.Frames-1, 0)
	}
	return 0
}

var scriptActions = map[string]struct{}{
	"pointer":    {},
	"sweep":      {},
	"scroll":     {},
	"wait":       {},
	"screenshot": {},
}

// TestRunner plays a scripted sequence of pointer moves, scroll changes and
// screenshots, one step per frame. A step that queues synthetic input holds
// the script until the window has consumed all of it.
//
// Scripts are JSON:
//
//	{"steps": [
//		{"action": "sweep", "fromX": 0, "fromY": 360, "toX": 1280, "toY": 360, "frames": 90},
//		{"action": "scroll", "progress": 0.2},
//		{"action": "wait", "frames": 30},
//		{"action": "screenshot", "label": "faded"}
//	]}
type TestRunner struct {
	steps []scriptStep
	next  int
	idle  int
	done  bool
}

// LoadTestScript parses a JSON test script. Every step must name a known
// action.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", errNoSteps)
	}
	for i, s := range script.Steps {
		if _, ok := scriptActions[s.Action]; !ok {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, s.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the window; it advances at the start of
// every Update.
func (w *Window) SetTestRunner(runner *TestRunner) {
	w.testRunner = runner
}

// Done reports whether the script has finished and its input has drained.
func (r *TestRunner) Done() bool { return r.done }

func (r *TestRunner) step(w *Window) {
	switch {
	case r.done, len(w.injectQueue) > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next == len(r.steps):
		r.done = true
		return
	}

	r.idle = r.steps[r.next].apply(w)
	r.next++
	r.done = r.next == len(r.steps) && r.idle == 0 && len(w.injectQueue) == 0
}
