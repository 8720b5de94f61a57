package schema

import "math"

// Rect is an axis-aligned box in the coordinate space of its container.
type Rect struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Transform is a 4x4 transformation matrix in column-major order.
type Transform struct {
	Matrix [16]float32 `json:"matrix"`
}

// RelativeBounds is the bounding box of a node relative to another node.
//
// If OffsetContainerID is set, Bounds are relative to that node. Otherwise a
// non-root node is relative to the tree root and the root is relative to its
// containing surface. Geometry is stored, never computed, by this module.
type RelativeBounds struct {
	OffsetContainerID NodeID     `json:"offset_container_id,omitempty"`
	Bounds            Rect       `json:"bounds"`
	Transform         *Transform `json:"transform,omitempty"`
}

// Equal reports bitwise equality of two rects.
func (r Rect) Equal(o Rect) bool {
	return sameFloat32(r.Left, o.Left) && sameFloat32(r.Top, o.Top) &&
		sameFloat32(r.Width, o.Width) && sameFloat32(r.Height, o.Height)
}

// Equal reports element-wise equality of two transforms; nil equals nil.
func (t *Transform) Equal(o *Transform) bool {
	if t == nil || o == nil {
		return t == o
	}
	for i := range t.Matrix {
		if !sameFloat32(t.Matrix[i], o.Matrix[i]) {
			return false
		}
	}
	return true
}

// Equal reports structural equality; nil equals nil.
func (b *RelativeBounds) Equal(o *RelativeBounds) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.OffsetContainerID == o.OffsetContainerID &&
		b.Bounds.Equal(o.Bounds) &&
		b.Transform.Equal(o.Transform)
}

// sameFloat32 compares bit patterns so that restating a NaN is not a change.
func sameFloat32(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func sameFloat64(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}
