// Package geometry holds the rectangle math used for window placement.
//
// Coordinates are y-up: the origin is the bottom-left corner of a rectangle
// and "top" is the edge with the larger Y value. Platform adapters convert
// to and from their native coordinate spaces.
package geometry

import (
	"fmt"
	"math"
)

// Point is a location in global desktop coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle anchored at its bottom-left origin.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect builds a rectangle from origin and size components.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Infinite returns a rectangle that contains every finite point.
func Infinite() Rect {
	return Rect{
		Origin: Point{X: -math.MaxFloat64 / 2, Y: -math.MaxFloat64 / 2},
		Size:   Size{Width: math.MaxFloat64, Height: math.MaxFloat64},
	}
}

// IsInfinite reports whether r was produced by Infinite.
func (r Rect) IsInfinite() bool {
	return r == Infinite()
}

func (r Rect) MinX() float64   { return r.Origin.X }
func (r Rect) MinY() float64   { return r.Origin.Y }
func (r Rect) MaxX() float64   { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64   { return r.Origin.Y + r.Size.Height }
func (r Rect) MidX() float64   { return r.Origin.X + r.Size.Width/2 }
func (r Rect) MidY() float64   { return r.Origin.Y + r.Size.Height/2 }
func (r Rect) Width() float64  { return r.Size.Width }
func (r Rect) Height() float64 { return r.Size.Height }

// Area returns width*height, or 0 for empty rectangles.
func (r Rect) Area() float64 {
	if r.Size.Width <= 0 || r.Size.Height <= 0 {
		return 0
	}
	return r.Size.Width * r.Size.Height
}

// ContainsPoint reports whether p lies inside r. Both edges are inclusive so
// that the outermost pixel row of a screen still counts as inside it.
func (r Rect) ContainsPoint(p Point) bool {
	return r.MinX() <= p.X && p.X <= r.MaxX() &&
		r.MinY() <= p.Y && p.Y <= r.MaxY()
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// Grown returns r with every edge pushed outward by d.
func (r Rect) Grown(d float64) Rect {
	return NewRect(r.Origin.X-d, r.Origin.Y-d, r.Size.Width+2*d, r.Size.Height+2*d)
}

// Intersection returns the overlapping part of r and other, or the zero Rect
// when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x1 := math.Max(r.MinX(), other.MinX())
	y1 := math.Max(r.MinY(), other.MinY())
	x2 := math.Min(r.MaxX(), other.MaxX())
	y2 := math.Min(r.MaxY(), other.MaxY())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return NewRect(x1, y1, x2-x1, y2-y1)
}

// Lerp interpolates center and size between r (t=0) and to (t=1).
func (r Rect) Lerp(to Rect, t float64) Rect {
	w := r.Size.Width + (to.Size.Width-r.Size.Width)*t
	h := r.Size.Height + (to.Size.Height-r.Size.Height)*t
	cx := r.MidX() + (to.MidX()-r.MidX())*t
	cy := r.MidY() + (to.MidY()-r.MidY())*t
	return NewRect(cx-w/2, cy-h/2, w, h)
}

// Rounded snaps origin and size to whole units.
func (r Rect) Rounded() Rect {
	return NewRect(
		math.Round(r.Origin.X),
		math.Round(r.Origin.Y),
		math.Round(r.Size.Width),
		math.Round(r.Size.Height),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// IsSizeConfined reports whether r fits within ref's width and height.
func (r Rect) IsSizeConfined(ref Rect) bool {
	return r.Size.Width <= ref.Size.Width && r.Size.Height <= ref.Size.Height
}

// IsContained reports whether all four edges of r lie within ref.
func (r Rect) IsContained(ref Rect) bool {
	return ref.MinX() <= r.MinX() && r.MaxX() <= ref.MaxX() &&
		ref.MinY() <= r.MinY() && r.MaxY() <= ref.MaxY()
}

// SizeConfined clamps r's width and height to ref's, keeping the origin.
func (r Rect) SizeConfined(ref Rect) Rect {
	return Rect{
		Origin: r.Origin,
		Size: Size{
			Width:  math.Min(r.Size.Width, ref.Size.Width),
			Height: math.Min(r.Size.Height, ref.Size.Height),
		},
	}
}
