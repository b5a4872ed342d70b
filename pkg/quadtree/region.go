package quadtree

// Region is an axis aligned rectangle described by its centre and half extents.
// X is latitude and Y is longitude throughout the network.
type Region struct {
	CenterX    float64
	CenterY    float64
	HalfWidth  float64
	HalfHeight float64
}

func NewRegion(centerX, centerY, halfWidth, halfHeight float64) Region {
	return Region{
		CenterX:    centerX,
		CenterY:    centerY,
		HalfWidth:  halfWidth,
		HalfHeight: halfHeight,
	}
}

// Contains is inclusive on all four edges
func (r Region) Contains(x, y float64) bool {
	return x >= r.CenterX-r.HalfWidth &&
		x <= r.CenterX+r.HalfWidth &&
		y >= r.CenterY-r.HalfHeight &&
		y <= r.CenterY+r.HalfHeight
}

// Intersects reports whether the two regions overlap. Regions that only touch on an edge intersect.
func (r Region) Intersects(other Region) bool {
	return !(other.CenterX-other.HalfWidth > r.CenterX+r.HalfWidth ||
		other.CenterX+other.HalfWidth < r.CenterX-r.HalfWidth ||
		other.CenterY-other.HalfHeight > r.CenterY+r.HalfHeight ||
		other.CenterY+other.HalfHeight < r.CenterY-r.HalfHeight)
}

// quadrants returns the four child regions in insertion order: NE, NW, SE, SW
func (r Region) quadrants() [4]Region {
	w := r.HalfWidth / 2
	h := r.HalfHeight / 2

	return [4]Region{
		{CenterX: r.CenterX + w, CenterY: r.CenterY - h, HalfWidth: w, HalfHeight: h},
		{CenterX: r.CenterX - w, CenterY: r.CenterY - h, HalfWidth: w, HalfHeight: h},
		{CenterX: r.CenterX + w, CenterY: r.CenterY + h, HalfWidth: w, HalfHeight: h},
		{CenterX: r.CenterX - w, CenterY: r.CenterY + h, HalfWidth: w, HalfHeight: h},
	}
}
