package geometry

// XKind selects the horizontal placement rule used by Aligned.
type XKind int

const (
	XRetainedKind XKind = iota
	XLeftOutKind
	XLeftKind
	XCenterKind
	XRightKind
	XRightOutKind
)

// YKind selects the vertical placement rule used by Aligned.
type YKind int

const (
	YRetainedKind YKind = iota
	YBottomOutKind
	YBottomKind
	YCenterKind
	YTopKind
	YTopOutKind
)

// XPositioning is a horizontal placement rule with its padding.
type XPositioning struct {
	Kind    XKind
	Padding float64
}

// YPositioning is a vertical placement rule with its padding.
type YPositioning struct {
	Kind    YKind
	Padding float64
}

func XRetained() XPositioning               { return XPositioning{Kind: XRetainedKind} }
func LeftOut(padding float64) XPositioning  { return XPositioning{Kind: XLeftOutKind, Padding: padding} }
func Left(padding float64) XPositioning     { return XPositioning{Kind: XLeftKind, Padding: padding} }
func XCenter() XPositioning                 { return XPositioning{Kind: XCenterKind} }
func Right(padding float64) XPositioning    { return XPositioning{Kind: XRightKind, Padding: padding} }
func RightOut(padding float64) XPositioning { return XPositioning{Kind: XRightOutKind, Padding: padding} }

func YRetained() YPositioning                { return YPositioning{Kind: YRetainedKind} }
func BottomOut(padding float64) YPositioning { return YPositioning{Kind: YBottomOutKind, Padding: padding} }
func Bottom(padding float64) YPositioning    { return YPositioning{Kind: YBottomKind, Padding: padding} }
func YCenter() YPositioning                  { return YPositioning{Kind: YCenterKind} }
func Top(padding float64) YPositioning       { return YPositioning{Kind: YTopKind, Padding: padding} }
func TopOut(padding float64) YPositioning    { return YPositioning{Kind: YTopOutKind, Padding: padding} }

// Aligned returns r moved against ref according to the X and Y rules. The
// size never changes. "Out" rules place r just outside the reference edge,
// the others inset it by the padding.
func (r Rect) Aligned(xp XPositioning, yp YPositioning, ref Rect) Rect {
	w, h := r.Size.Width, r.Size.Height

	var x float64
	switch xp.Kind {
	case XLeftOutKind:
		x = ref.MinX() - w - 1 - xp.Padding
	case XLeftKind:
		x = ref.MinX() + xp.Padding
	case XCenterKind:
		x = ref.MidX() - w/2
	case XRightKind:
		x = ref.MaxX() - w - xp.Padding
	case XRightOutKind:
		x = ref.MaxX() + 1 + xp.Padding
	default:
		x = r.Origin.X
	}

	var y float64
	switch yp.Kind {
	case YBottomOutKind:
		y = ref.MinY() - h - 1 - yp.Padding
	case YBottomKind:
		y = ref.MinY() + yp.Padding
	case YCenterKind:
		y = ref.MidY() - h/2
	case YTopKind:
		y = ref.MaxY() - h - yp.Padding
	case YTopOutKind:
		y = ref.MaxY() + 1 + yp.Padding
	default:
		y = r.Origin.Y
	}

	return Rect{Origin: Point{X: x, Y: y}, Size: r.Size}
}

// Edge names one side of a rectangle.
type Edge int

const (
	EdgeBottom Edge = iota
	EdgeTop
	EdgeLeft
	EdgeRight
)

// Expansion moves one edge of a rectangle to the matching edge of a
// bounding frame, inset by a signed padding. Negative padding pushes the
// edge past the bounding frame.
type Expansion struct {
	Edge    Edge
	Padding float64
}

func ExpandBottom(padding float64) Expansion { return Expansion{Edge: EdgeBottom, Padding: padding} }
func ExpandTop(padding float64) Expansion    { return Expansion{Edge: EdgeTop, Padding: padding} }
func ExpandLeft(padding float64) Expansion   { return Expansion{Edge: EdgeLeft, Padding: padding} }
func ExpandRight(padding float64) Expansion  { return Expansion{Edge: EdgeRight, Padding: padding} }

// Expanded applies opts in order. It only acts when r is contained in
// bounding; off-screen geometry is returned unchanged.
func (r Rect) Expanded(opts []Expansion, bounding Rect) Rect {
	if !r.IsContained(bounding) {
		return r
	}

	out := r
	for _, opt := range opts {
		switch opt.Edge {
		case EdgeLeft:
			d := out.MinX() - bounding.MinX() - opt.Padding
			out.Origin.X -= d
			out.Size.Width += d
		case EdgeRight:
			d := bounding.MaxX() - out.MaxX() - opt.Padding
			out.Size.Width += d
		case EdgeBottom:
			d := out.MinY() - bounding.MinY() - opt.Padding
			out.Origin.Y -= d
			out.Size.Height += d
		case EdgeTop:
			d := bounding.MaxY() - out.MaxY() - opt.Padding
			out.Size.Height += d
		}
	}
	return out
}
