package dom

// Point is a position in document coordinates.
type Point struct {
	X float64
	Y float64
}

// Add returns the point offset by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the point offset by the negation of other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// IsZero returns true if both coordinates are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate returns the rectangle offset by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Overlap returns the fraction of the smaller extent shared by the two
// rectangles along the given axis, in the range [0, 1].
func (r Rect) Overlap(other Rect, axis Axis) float64 {
	var lo, hi, a, b float64
	if axis == Horizontal {
		lo, hi = maxf(r.X, other.X), minf(r.Right(), other.Right())
		a, b = r.W, other.W
	} else {
		lo, hi = maxf(r.Y, other.Y), minf(r.Bottom(), other.Bottom())
		a, b = r.H, other.H
	}
	if hi <= lo {
		return 0
	}
	denom := minf(a, b)
	if denom <= 0 {
		return 0
	}
	return (hi - lo) / denom
}

// Axis identifies a layout direction.
type Axis uint8

const (
	// Vertical stacks children top to bottom.
	Vertical Axis = iota
	// Horizontal stacks children left to right.
	Horizontal
)

// String returns the axis name.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
