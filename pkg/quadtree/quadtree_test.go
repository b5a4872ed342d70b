package quadtree

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionContainsIsInclusive(t *testing.T) {
	region := NewRegion(0, 0, 1, 1)

	assert.True(t, region.Contains(1, 1))
	assert.True(t, region.Contains(-1, -1))
	assert.True(t, region.Contains(1, -1))
	assert.True(t, region.Contains(0, 0))
	assert.False(t, region.Contains(1.0000001, 0))
	assert.False(t, region.Contains(0, -1.0000001))
}

func TestRegionIntersects(t *testing.T) {
	region := NewRegion(0, 0, 1, 1)

	tests := []struct {
		name  string
		other Region
		want  bool
	}{
		{"overlapping", NewRegion(1, 1, 1, 1), true},
		{"touching edge", NewRegion(2, 0, 1, 1), true},
		{"touching corner", NewRegion(2, 2, 1, 1), true},
		{"contained", NewRegion(0, 0, 0.1, 0.1), true},
		{"separate on x", NewRegion(2.5, 0, 1, 1), false},
		{"separate on y", NewRegion(0, -2.5, 1, 1), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, region.Intersects(test.other))
			assert.Equal(t, test.want, test.other.Intersects(region))
		})
	}
}

func TestInsertOutsideBoundary(t *testing.T) {
	tree := New[string](NewRegion(0, 0, 1, 1), 4)

	assert.False(t, tree.Insert(Point[string]{X: 5, Y: 0, Payload: "far"}))
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Query(tree.Boundary()))
}

func TestInsertBoundaryPoint(t *testing.T) {
	tree := New[string](NewRegion(0, 0, 1, 1), 4)

	require.True(t, tree.Insert(Point[string]{X: 1, Y: 1, Payload: "corner"}))

	found := tree.Query(NewRegion(1, 1, 0, 0))
	require.Len(t, found, 1)
	assert.Equal(t, "corner", found[0].Payload)
}

func TestSubdivideKeepsExistingPoints(t *testing.T) {
	tree := New[int](NewRegion(0, 0, 1, 1), 2)

	for i := 0; i < 2; i++ {
		require.True(t, tree.Insert(Point[int]{X: 0.5, Y: 0.5, Payload: i}))
	}
	assert.Nil(t, tree.root.children)

	require.True(t, tree.Insert(Point[int]{X: -0.5, Y: -0.5, Payload: 2}))
	require.NotNil(t, tree.root.children)

	assert.Len(t, tree.root.points, 2)
	assert.Equal(t, 0.5, tree.root.children[0].boundary.HalfWidth)
	assert.Equal(t, 0.5, tree.root.children[0].boundary.HalfHeight)

	// -0.5,-0.5 lies in the NW quadrant (x-w, y-h)
	assert.Empty(t, tree.root.children[0].points)
	assert.Len(t, tree.root.children[1].points, 1)
}

func TestCentrePointGoesToFirstQuadrant(t *testing.T) {
	tree := New[int](NewRegion(0, 0, 1, 1), 1)

	require.True(t, tree.Insert(Point[int]{X: 0.3, Y: 0.3, Payload: 0}))
	require.True(t, tree.Insert(Point[int]{X: 0, Y: 0, Payload: 1}))

	assert.Len(t, tree.root.children[0].points, 1)
	assert.Equal(t, 1, tree.root.children[0].points[0].Payload)
}

func TestQueryMatchesBruteForce(t *testing.T) {
	boundary := NewRegion(-15.84, -70.02, 0.05, 0.05)
	random := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 20; round++ {
		tree := New[int](boundary, 1+random.IntN(6))
		var points []Point[int]

		for i := 0; i < 300; i++ {
			point := Point[int]{
				X:       boundary.CenterX + (random.Float64()*2-1)*boundary.HalfWidth,
				Y:       boundary.CenterY + (random.Float64()*2-1)*boundary.HalfHeight,
				Payload: i,
			}
			require.True(t, tree.Insert(point))
			points = append(points, point)
		}

		require.Equal(t, len(points), tree.Len())
		assert.ElementsMatch(t, payloads(points), payloads(tree.Query(boundary)))

		for q := 0; q < 25; q++ {
			region := NewRegion(
				boundary.CenterX+(random.Float64()*2-1)*boundary.HalfWidth,
				boundary.CenterY+(random.Float64()*2-1)*boundary.HalfHeight,
				random.Float64()*0.03,
				random.Float64()*0.03,
			)

			var expected []Point[int]
			for _, point := range points {
				if region.Contains(point.X, point.Y) {
					expected = append(expected, point)
				}
			}

			assert.ElementsMatch(t, payloads(expected), payloads(tree.Query(region)))
		}
	}
}

func TestQueryIsIdempotent(t *testing.T) {
	tree := New[int](NewRegion(0, 0, 10, 10), 3)
	for i := 0; i < 50; i++ {
		tree.Insert(Point[int]{X: float64(i%10) - 5, Y: float64(i/10) - 2, Payload: i})
	}

	region := NewRegion(0, 0, 3, 3)
	first := payloads(tree.Query(region))
	second := payloads(tree.Query(region))

	assert.Equal(t, first, second)
}

func TestDuplicatePointsAreKept(t *testing.T) {
	tree := New[int](NewRegion(0, 0, 1, 1), 2)
	for i := 0; i < 9; i++ {
		require.True(t, tree.Insert(Point[int]{X: 0.25, Y: 0.25, Payload: i}))
	}

	assert.Len(t, tree.Query(NewRegion(0.25, 0.25, 0.01, 0.01)), 9)
}

func payloads(points []Point[int]) []int {
	out := make([]int, 0, len(points))
	for _, point := range points {
		out = append(out, point.Payload)
	}
	sort.Ints(out)
	return out
}
