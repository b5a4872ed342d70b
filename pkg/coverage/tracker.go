package coverage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/rs/zerolog/log"
)

const DefaultCellSize = 0.001

var ErrCapacityReached = errors.New("coverage tracker cell limit reached")
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Tracker owns a coverage matrix for the lifetime of a service. A MaxCells of 0 leaves it unbounded.
type Tracker struct {
	mu sync.Mutex

	cellSize float64
	maxCells int

	matrix    *Matrix
	resetTime time.Time
}

func NewTracker(cellSize float64, maxCells int) *Tracker {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	return &Tracker{
		cellSize:  cellSize,
		maxCells:  maxCells,
		matrix:    NewMatrix(),
		resetTime: time.Now(),
	}
}

func (t *Tracker) Record(latitude float64, longitude float64) (Cell, error) {
	if !ctdf.ValidCoordinates(latitude, longitude) {
		return Cell{}, fmt.Errorf("%v,%v: %w", latitude, longitude, ErrInvalidCoordinates)
	}

	row, col := CellFor(latitude, longitude, t.cellSize)

	return t.RecordCell(row, col)
}

func (t *Tracker) RecordCell(row int, col int) (Cell, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxCells > 0 && t.matrix.Len() >= t.maxCells && !t.matrix.Contains(row, col) {
		log.Warn().Int("row", row).Int("col", col).Int("limit", t.maxCells).Msg("Coverage tracker full, dropping new cell")
		return Cell{}, ErrCapacityReached
	}

	metrics.CoverageRecords.Inc()

	return t.matrix.Insert(row, col), nil
}

func (t *Tracker) Snapshot() []Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.matrix.Entries()
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.matrix.Len()
}

// Reset drops every recorded cell and returns how many there were
func (t *Tracker) Reset() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := t.matrix.Len()
	t.matrix = NewMatrix()
	t.resetTime = time.Now()

	log.Info().Int("cells", dropped).Msg("Coverage tracker reset")

	return dropped
}

func (t *Tracker) Since() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.resetTime
}

func (t *Tracker) CellSize() float64 {
	return t.cellSize
}
