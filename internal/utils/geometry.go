package utils

import "math"

// Box is an axis-aligned rectangle in image coordinates.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NewBox constructs a Box from two corner points ensuring ordering.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Area returns the box area.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// Empty reports whether the box has zero or negative extent.
func (b Box) Empty() bool { return b.MaxX <= b.MinX || b.MaxY <= b.MinY }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Intersects reports whether b and o share any area.
func (b Box) Intersects(o Box) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX && b.MinY < o.MaxY && o.MinY < b.MaxY
}

// IntersectionArea returns the area shared by b and o, or 0 if disjoint.
func (b Box) IntersectionArea(o Box) float64 {
	left := math.Max(b.MinX, o.MinX)
	top := math.Max(b.MinY, o.MinY)
	right := math.Min(b.MaxX, o.MaxX)
	bottom := math.Min(b.MaxY, o.MaxY)
	if left >= right || top >= bottom {
		return 0
	}
	return (right - left) * (bottom - top)
}

// OverlapRatio returns the intersection area divided by the smaller box's area.
// Returns 0 when the boxes are disjoint or either box is degenerate.
func OverlapRatio(a, b Box) float64 {
	inter := a.IntersectionArea(b)
	if inter <= 0 {
		return 0
	}
	smaller := math.Min(a.Area(), b.Area())
	if smaller <= 0 {
		return 0
	}
	return inter / smaller
}
