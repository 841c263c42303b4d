package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox is an axis-aligned bounding box given by two corners,
// (X1,Y1) top-left and (X2,Y2) bottom-right in extraction coordinates.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// NewBBox creates a bounding box from corner coordinates.
func NewBBox(x1, y1, x2, y2 float64) BBox {
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Envelope returns the axis-aligned bounding box of a polygon.
// Used for possibly rotated OCR regions. A nil or empty polygon
// yields the zero box.
func Envelope(points []Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{X1: points[0].X, Y1: points[0].Y, X2: points[0].X, Y2: points[0].Y}
	for _, p := range points[1:] {
		b.X1 = math.Min(b.X1, p.X)
		b.Y1 = math.Min(b.Y1, p.Y)
		b.X2 = math.Max(b.X2, p.X)
		b.Y2 = math.Max(b.Y2, p.Y)
	}
	return b
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Intersects checks if two bounding boxes intersect.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X2 < other.X1 || b.X1 > other.X2 ||
		b.Y2 < other.Y1 || b.Y1 > other.Y2)
}

// Intersection returns the intersection of two bounding boxes,
// or the zero box when they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
		X2: math.Min(b.X2, other.X2),
		Y2: math.Min(b.Y2, other.Y2),
	}
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
		X2: math.Max(b.X2, other.X2),
		Y2: math.Max(b.Y2, other.Y2),
	}
}

// OverlapRatio calculates the overlap ratio with another box,
// relative to the smaller of the two areas. Returns a value in [0,1].
func (b BBox) OverlapRatio(other BBox) float64 {
	if !b.Intersects(other) {
		return 0
	}
	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 {
		return 0
	}
	return b.Intersection(other).Area() / minArea
}

// IsValid returns true if the bounding box has positive dimensions.
func (b BBox) IsValid() bool {
	return b.Width() > 0 && b.Height() > 0
}
