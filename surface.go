package glowfield

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ErrNoSurface is returned when a drawing surface cannot be acquired.
var ErrNoSurface = errors.New("glowfield: drawing surface unavailable")

// StrokeStyle describes how a Path is stroked.
type StrokeStyle struct {
	Width    float64
	Gradient LinearGradient
	// Round selects round caps and joins; otherwise butt caps and miter joins.
	Round bool
}

// Surface is the drawing target of the Compositor. Coordinates are logical
// (viewport) pixels; implementations apply their own device scaling.
type Surface interface {
	// Bounds returns the logical drawing area.
	Bounds() Rect
	// FillRect blends c over r.
	FillRect(r Rect, c Color)
	// FillLinear fills r with a linear gradient.
	FillLinear(r Rect, g LinearGradient)
	// StrokePath strokes p.
	StrokePath(p *Path, style StrokeStyle)
	// FillRadial fills the disc of g.Radius around g.Center with g.
	FillRadial(g RadialGradient)
}

const (
	// radialSegments is the number of slices in a tessellated glow disc.
	radialSegments = 48
	// linearCells subdivides gradient rectangles so multi-stop gradients
	// interpolate per cell rather than corner to corner.
	linearCells = 8
)

// ImageSurface is a Surface backed by an offscreen ebiten.Image sized to
// the viewport times a render scale. Everything is tessellated into
// triangles and submitted with DrawTriangles using per-vertex colors.
type ImageSurface struct {
	img    *ebiten.Image
	width  int
	height int
	scale  float64

	verts  []ebiten.Vertex
	inds   []uint16
	vpath  vector.Path
	triOpt ebiten.DrawTrianglesOptions
}

// NewImageSurface allocates a surface for a width×height logical viewport
// rendered at scale. It returns ErrNoSurface for an empty viewport.
func NewImageSurface(width, height int, scale float64) (*ImageSurface, error) {
	s := &ImageSurface{}
	s.triOpt.AntiAlias = true
	if err := s.Resize(width, height, scale); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize discards the current contents and reallocates the backing image.
// Must not be called while a frame is being painted.
func (s *ImageSurface) Resize(width, height int, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	pw := int(math.Ceil(float64(width) * scale))
	ph := int(math.Ceil(float64(height) * scale))
	if width <= 0 || height <= 0 || pw <= 0 || ph <= 0 {
		return fmt.Errorf("resize %dx%d at %.2f: %w", width, height, scale, ErrNoSurface)
	}
	if s.img != nil {
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(pw, ph)
	s.width, s.height, s.scale = width, height, scale
	return nil
}

// Image returns the backing image.
func (s *ImageSurface) Image() *ebiten.Image { return s.img }

// Scale returns the render scale.
func (s *ImageSurface) Scale() float64 { return s.scale }

// Bounds returns the logical viewport.
func (s *ImageSurface) Bounds() Rect {
	return Rect{Width: float64(s.width), Height: float64(s.height)}
}

// Release frees the backing image. The surface must not be used afterwards.
func (s *ImageSurface) Release() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}

// FillRect blends c over r.
func (s *ImageSurface) FillRect(r Rect, c Color) {
	s.verts, s.inds = appendRect(s.verts[:0], s.inds[:0], r, s.scale, 1, 1, func(Vec2) Color { return c })
	s.submit()
}

// FillLinear fills r with g.
func (s *ImageSurface) FillLinear(r Rect, g LinearGradient) {
	s.verts, s.inds = appendRect(s.verts[:0], s.inds[:0], r, s.scale, linearCells, linearCells, g.AtPoint)
	s.submit()
}

// StrokePath strokes p with style.
func (s *ImageSurface) StrokePath(p *Path, style StrokeStyle) {
	s.verts, s.inds = appendStroke(&s.vpath, s.verts[:0], s.inds[:0], p, style, s.scale)
	s.submit()
}

// FillRadial fills g's disc.
func (s *ImageSurface) FillRadial(g RadialGradient) {
	s.verts, s.inds = appendRadial(s.verts[:0], s.inds[:0], g, s.scale, radialSegments)
	s.submit()
}

func (s *ImageSurface) submit() {
	if len(s.inds) == 0 || s.img == nil {
		return
	}
	s.img.DrawTriangles(s.verts, s.inds, whitePixel(), &s.triOpt)
}

// whitePixelImage is the untextured triangle source. Single-threaded use only.
var whitePixelImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// vertex builds an untextured vertex at logical point pt scaled to pixels.
func vertex(pt Vec2, scale float64, c Color) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(pt.X * scale),
		DstY:   float32(pt.Y * scale),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(clamp01(c.R)),
		ColorG: float32(clamp01(c.G)),
		ColorB: float32(clamp01(c.B)),
		ColorA: float32(clamp01(c.A)),
	}
}

// appendRect tessellates r into cols×rows cells, coloring each corner with
// shade.
func appendRect(vs []ebiten.Vertex, is []uint16, r Rect, scale float64, cols, rows int, shade func(Vec2) Color) ([]ebiten.Vertex, []uint16) {
	if r.Empty() || cols < 1 || rows < 1 {
		return vs, is
	}
	base := uint16(len(vs))
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			pt := Vec2{
				X: r.X + r.Width*float64(i)/float64(cols),
				Y: r.Y + r.Height*float64(j)/float64(rows),
			}
			vs = append(vs, vertex(pt, scale, shade(pt)))
		}
	}
	stride := uint16(cols + 1)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			tl := base + uint16(j)*stride + uint16(i)
			tr := tl + 1
			bl := tl + stride
			br := bl + 1
			is = append(is, tl, tr, bl, tr, br, bl)
		}
	}
	return vs, is
}

// appendStroke converts p into an ebiten vector path, tessellates its stroke
// and colors every vertex from the style gradient.
func appendStroke(vp *vector.Path, vs []ebiten.Vertex, is []uint16, p *Path, style StrokeStyle, scale float64) ([]ebiten.Vertex, []uint16) {
	if p == nil || p.Empty() || style.Width <= 0 {
		return vs, is
	}
	*vp = vector.Path{}
	for _, seg := range p.Segments {
		to := seg.To.Scale(scale)
		switch seg.Kind {
		case SegmentMoveTo:
			vp.MoveTo(float32(to.X), float32(to.Y))
		case SegmentQuadTo:
			ctrl := seg.Ctrl.Scale(scale)
			vp.QuadTo(float32(ctrl.X), float32(ctrl.Y), float32(to.X), float32(to.Y))
		}
	}

	op := &vector.StrokeOptions{Width: float32(style.Width * scale)}
	if style.Round {
		op.LineCap = vector.LineCapRound
		op.LineJoin = vector.LineJoinRound
	} else {
		op.LineJoin = vector.LineJoinMiter
		op.MiterLimit = 10
	}

	start := len(vs)
	vs, is = vp.AppendVerticesAndIndicesForStroke(vs, is, op)
	for i := start; i < len(vs); i++ {
		v := &vs[i]
		c := style.Gradient.AtPoint(Vec2{X: float64(v.DstX) / scale, Y: float64(v.DstY) / scale})
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR = float32(clamp01(c.R))
		v.ColorG = float32(clamp01(c.G))
		v.ColorB = float32(clamp01(c.B))
		v.ColorA = float32(clamp01(c.A))
	}
	return vs, is
}

// appendRadial tessellates g's disc as a center fan plus one ring per
// gradient stop, so color interpolates linearly between stops.
func appendRadial(vs []ebiten.Vertex, is []uint16, g RadialGradient, scale float64, segments int) ([]ebiten.Vertex, []uint16) {
	if g.Radius <= 0 || segments < 3 {
		return vs, is
	}

	var rings []float64
	for _, st := range g.Stops {
		if st.Offset > 0 && st.Offset <= 1 {
			rings = append(rings, st.Offset)
		}
	}
	if len(rings) == 0 || rings[len(rings)-1] < 1 {
		rings = append(rings, 1)
	}

	center := uint16(len(vs))
	vs = append(vs, vertex(g.Center, scale, g.At(0)))

	for _, t := range rings {
		c := g.At(t)
		r := g.Radius * t
		for k := 0; k < segments; k++ {
			a := 2 * math.Pi * float64(k) / float64(segments)
			pt := Vec2{X: g.Center.X + math.Cos(a)*r, Y: g.Center.Y + math.Sin(a)*r}
			vs = append(vs, vertex(pt, scale, c))
		}
	}

	seg := uint16(segments)
	first := center + 1
	for k := uint16(0); k < seg; k++ {
		is = append(is, center, first+k, first+(k+1)%seg)
	}
	for ring := 1; ring < len(rings); ring++ {
		inner := first + uint16(ring-1)*seg
		outer := inner + seg
		for k := uint16(0); k < seg; k++ {
			k1 := (k + 1) % seg
			is = append(is, inner+k, outer+k, outer+k1, inner+k, outer+k1, inner+k1)
		}
	}
	return vs, is
}
