package entity

import (
	"fmt"
	"math"
)

// Rect is a pane rectangle. The unit (physical or logical pixels) depends on
// which side of the coordinate transform the value sits.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect builds a rectangle from its components.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Validate rejects non-finite components and negative sizes.
func (r Rect) Validate() error {
	for name, v := range map[string]float64{"x": r.X, "y": r.Y, "width": r.Width, "height": r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid rect: %s is not finite", name)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("invalid rect: negative size %gx%g", r.Width, r.Height)
	}
	return nil
}

// Scale multiplies every component by factor.
func (r Rect) Scale(factor float64) Rect {
	return Rect{X: r.X * factor, Y: r.Y * factor, Width: r.Width * factor, Height: r.Height * factor}
}

// ApproxEqual reports whether both rectangles match within tolerance.
func (r Rect) ApproxEqual(o Rect, tolerance float64) bool {
	return math.Abs(r.X-o.X) <= tolerance &&
		math.Abs(r.Y-o.Y) <= tolerance &&
		math.Abs(r.Width-o.Width) <= tolerance &&
		math.Abs(r.Height-o.Height) <= tolerance
}

// String formats the rectangle for logs.
func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
