package quadtree

import "sync"

const DefaultCapacity = 4

type Point[T any] struct {
	X       float64
	Y       float64
	Payload T
}

type node[T any] struct {
	boundary Region
	capacity int

	points   []Point[T]
	children *[4]*node[T]
}

// QuadTree is a point region quadtree. Nodes split once they receive more points than
// their capacity and the points already held stay where they are.
type QuadTree[T any] struct {
	mu   sync.RWMutex
	root *node[T]
	size int
}

func New[T any](boundary Region, capacity int) *QuadTree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &QuadTree[T]{
		root: newNode[T](boundary, capacity),
	}
}

func newNode[T any](boundary Region, capacity int) *node[T] {
	return &node[T]{
		boundary: boundary,
		capacity: capacity,
		points:   make([]Point[T], 0, capacity),
	}
}

// Insert stores the point and returns false if it lies outside the tree boundary
func (q *QuadTree[T]) Insert(point Point[T]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.root.insert(point) {
		return false
	}

	q.size++
	return true
}

// Query returns every stored point inside the region
func (q *QuadTree[T]) Query(region Region) []Point[T] {
	q.mu.RLock()
	defer q.mu.RUnlock()

	found := []Point[T]{}
	return q.root.query(region, found)
}

func (q *QuadTree[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.size
}

func (q *QuadTree[T]) Boundary() Region {
	return q.root.boundary
}

func (n *node[T]) insert(point Point[T]) bool {
	if !n.boundary.Contains(point.X, point.Y) {
		return false
	}

	if len(n.points) < n.capacity {
		n.points = append(n.points, point)
		return true
	}

	if n.children == nil {
		n.subdivide()
	}

	for _, child := range n.children {
		if child.insert(point) {
			return true
		}
	}

	// Unreachable for finite coordinates as the children cover the parent inclusively
	return false
}

func (n *node[T]) subdivide() {
	var children [4]*node[T]
	for i, region := range n.boundary.quadrants() {
		children[i] = newNode[T](region, n.capacity)
	}

	n.children = &children
}

func (n *node[T]) query(region Region, found []Point[T]) []Point[T] {
	if !n.boundary.Intersects(region) {
		return found
	}

	for _, point := range n.points {
		if region.Contains(point.X, point.Y) {
			found = append(found, point)
		}
	}

	if n.children != nil {
		for _, child := range n.children {
			found = child.query(region, found)
		}
	}

	return found
}
