package glowfield

// SegmentKind identifies a path command.
type SegmentKind uint8

const (
	SegmentMoveTo SegmentKind = iota // start a new sub-path at To
	SegmentQuadTo                    // quadratic curve through Ctrl ending at To
)

// Segment is one path command. Ctrl is only meaningful for SegmentQuadTo.
type Segment struct {
	Kind SegmentKind
	Ctrl Vec2
	To   Vec2
}

// Path is a backend-independent list of drawing commands.
type Path struct {
	Segments []Segment
}

// Reset empties the path, keeping its backing array.
func (p *Path) Reset() {
	p.Segments = p.Segments[:0]
}

// MoveTo starts a new sub-path at pt.
func (p *Path) MoveTo(pt Vec2) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentMoveTo, To: pt})
}

// QuadTo appends a quadratic curve with control point ctrl ending at to.
func (p *Path) QuadTo(ctrl, to Vec2) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentQuadTo, Ctrl: ctrl, To: to})
}

// Empty reports whether the path has no drawing commands.
func (p *Path) Empty() bool {
	return len(p.Segments) == 0
}

// BuildClosedCurve threads one smooth closed curve through the particle
// positions of set, writing into p (which is reset first). Each particle is
// the control point of a quadratic segment ending at the midpoint between it
// and its successor; the last particle wraps to the first. An empty set
// leaves p empty.
func BuildClosedCurve(p *Path, set ParticleSet) {
	p.Reset()
	n := len(set)
	if n == 0 {
		return
	}

	p.MoveTo(set[0].Pos)
	for i := 0; i < n; i++ {
		cur := set[i].Pos
		next := set[(i+1)%n].Pos
		p.QuadTo(cur, cur.Mid(next))
	}
	// Closing segment, last particle back toward the first.
	last, first := set[n-1].Pos, set[0].Pos
	p.QuadTo(last, last.Mid(first))
}
