package coverage

import "math"

// Cell is one visited ground cell and how many times it has been recorded
type Cell struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Count int `json:"count"`
}

type entry struct {
	cell Cell
	next *entry
}

// Matrix is a sparse counter kept as a singly linked list in first insertion order.
// Lookups are a linear scan; the number of visited cells along one route stays small.
type Matrix struct {
	head   *entry
	tail   *entry
	length int
}

func NewMatrix() *Matrix {
	return &Matrix{}
}

// Insert increments the counter for the cell, appending it if it is new, and returns the updated cell
func (m *Matrix) Insert(row int, col int) Cell {
	for current := m.head; current != nil; current = current.next {
		if current.cell.Row == row && current.cell.Col == col {
			current.cell.Count++
			return current.cell
		}
	}

	created := &entry{cell: Cell{Row: row, Col: col, Count: 1}}
	if m.tail == nil {
		m.head = created
	} else {
		m.tail.next = created
	}
	m.tail = created
	m.length++

	return created.cell
}

func (m *Matrix) Contains(row int, col int) bool {
	for current := m.head; current != nil; current = current.next {
		if current.cell.Row == row && current.cell.Col == col {
			return true
		}
	}

	return false
}

func (m *Matrix) Entries() []Cell {
	cells := make([]Cell, 0, m.length)
	for current := m.head; current != nil; current = current.next {
		cells = append(cells, current.cell)
	}

	return cells
}

func (m *Matrix) Len() int {
	return m.length
}

// CellFor converts a coordinate into its grid cell
func CellFor(latitude float64, longitude float64, cellSize float64) (int, int) {
	return int(math.Floor(latitude / cellSize)), int(math.Floor(longitude / cellSize))
}
