package glowfield

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// surfaceCall records one Surface operation.
type surfaceCall struct {
	op     string
	rect   Rect
	color  Color
	linear LinearGradient
	radial RadialGradient
	path   Path
	stroke StrokeStyle
}

// recordingSurface is a Surface that records calls instead of drawing.
type recordingSurface struct {
	bounds Rect
	calls  []surfaceCall
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{bounds: Rect{Width: w, Height: h}}
}

func (s *recordingSurface) Bounds() Rect { return s.bounds }

func (s *recordingSurface) FillRect(r Rect, c Color) {
	s.calls = append(s.calls, surfaceCall{op: "rect", rect: r, color: c})
}

func (s *recordingSurface) FillLinear(r Rect, g LinearGradient) {
	s.calls = append(s.calls, surfaceCall{op: "linear", rect: r, linear: g})
}

func (s *recordingSurface) StrokePath(p *Path, style StrokeStyle) {
	cp := Path{Segments: append([]Segment(nil), p.Segments...)}
	s.calls = append(s.calls, surfaceCall{op: "stroke", path: cp, stroke: style})
}

func (s *recordingSurface) FillRadial(g RadialGradient) {
	s.calls = append(s.calls, surfaceCall{op: "radial", radial: g})
}

func (s *recordingSurface) ops() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.op
	}
	return out
}

// fakeCanvas is a Canvas without a backing image.
type fakeCanvas struct {
	recordingSurface
	scale    float64
	resizes  int
	released bool
}

func (c *fakeCanvas) Resize(width, height int, scale float64) error {
	if width <= 0 || height <= 0 {
		return ErrNoSurface
	}
	c.bounds = Rect{Width: float64(width), Height: float64(height)}
	c.scale = scale
	c.resizes++
	c.calls = nil
	return nil
}

func (c *fakeCanvas) Image() *ebiten.Image { return nil }

func (c *fakeCanvas) Release() { c.released = true }

// fakeHost is a Host driven manually from tests.
type fakeHost struct {
	*ManualSource
	size     Size
	scale    float64
	pointers registry[Vec2]
	resizes  registry[Size]
}

func newFakeHost(w, h int) *fakeHost {
	return &fakeHost{
		ManualSource: NewManualSource(time.Unix(0, 0), time.Second/60),
		size:         Size{Width: w, Height: h},
		scale:        2,
	}
}

func (h *fakeHost) Viewport() Size { return h.size }
func (h *fakeHost) DeviceScale() float64 { return h.scale }
func (h *fakeHost) OnPointerMove(fn func(Vec2)) CallbackHandle { return h.pointers.add(fn) }
func (h *fakeHost) OnResize(fn func(Size)) CallbackHandle { return h.resizes.add(fn) }

func (h *fakeHost) resize(w, ht int) {
	h.size = Size{Width: w, Height: ht}
	h.resizes.emit(h.size)
}

func (h *fakeHost) listeners() (frames, pointers, resizes int) {
	return h.Listeners(), h.pointers.len(), h.resizes.len()
}

// mountFake mounts a Background on a fake host with a fake canvas and
// returns all three.
func mountFake(cfg Config) (*Background, *fakeHost, *fakeCanvas) {
	host := newFakeHost(800, 600)
	var canvas *fakeCanvas
	cfg.NewCanvas = func(w, h int, scale float64) (Canvas, error) {
		canvas = &fakeCanvas{}
		if err := canvas.Resize(w, h, scale); err != nil {
			return nil, err
		}
		canvas.resizes = 0
		return canvas, nil
	}
	bg := Mount(host, cfg)
	return bg, host, canvas
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
