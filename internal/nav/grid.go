// Package nav implements the grid-based navigation core: the walkability
// grid, the A* pathfinder and the line-of-sight path smoother.
package nav

import (
	"errors"
	"fmt"
	gomath "math"
	"sync"

	"github.com/warhelm/navcore/internal/entity"
	"github.com/warhelm/navcore/pkg/math"
)

// Grid construction errors.
var (
	ErrBadDimensions = errors.New("grid dimensions must be positive")
	ErrBadCellSize   = errors.New("grid cell size must be positive")
)

// Cell is one grid cell. Cost is a movement multiplier (1.0 = normal
// terrain); Occupant is the unit currently standing on the cell, zero
// when empty.
type Cell struct {
	Walkable bool
	Cost     float64
	Occupant entity.ID
}

// Grid is the navigation grid shared between the terrain system (writer)
// and path searches (readers). Cell access goes through a read-write
// lock; searches hold the read side for their full duration so they
// never observe a half-applied terrain update. Dimensions and cell size
// are immutable after construction.
type Grid struct {
	mu         sync.RWMutex
	width      int
	height     int
	cellSize   float64
	cells      []Cell
	generation uint64
}

// NewGrid creates a grid with all cells walkable at cost 1.0.
func NewGrid(width, height int, cellSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadCellSize, cellSize)
	}

	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Walkable: true, Cost: 1.0}
	}

	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		cells:    cells,
	}, nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// CellSize returns the world size of one cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Generation returns a counter bumped on every mutation.
func (g *Grid) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// InBounds reports whether (x, y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns a copy of the cell at (x, y). The second return value is
// false outside the grid.
func (g *Grid) Cell(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cells[g.index(x, y)], true
}

// SetWalkable marks a cell walkable or blocked. Out-of-bounds calls are
// ignored: terrain updates routinely touch edge cells during partial
// map loads.
func (g *Grid) SetWalkable(x, y int, walkable bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[g.index(x, y)].Walkable = walkable
	g.generation++
}

// SetCost sets a cell's movement cost multiplier. Negative costs are
// clamped to zero. Out-of-bounds calls are ignored.
func (g *Grid) SetCost(x, y int, cost float64) {
	if !g.InBounds(x, y) {
		return
	}
	if cost < 0 {
		cost = 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[g.index(x, y)].Cost = cost
	g.generation++
}

// SetOccupant records the unit standing on a cell. Out-of-bounds calls
// are ignored.
func (g *Grid) SetOccupant(x, y int, unit entity.ID) {
	if !g.InBounds(x, y) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[g.index(x, y)].Occupant = unit
	g.generation++
}

// ClearOccupant removes any occupant from a cell.
func (g *Grid) ClearOccupant(x, y int) {
	g.SetOccupant(x, y, 0)
}

// WorldToGrid converts a world position to grid coordinates. Positions
// outside the grid extent convert without error; validity is the
// caller's concern.
func (g *Grid) WorldToGrid(p math.Vec2) (int, int) {
	return int(gomath.Floor(p.X / g.cellSize)), int(gomath.Floor(p.Y / g.cellSize))
}

// GridToWorld converts grid coordinates to the cell-center world
// position.
func (g *Grid) GridToWorld(x, y int) math.Vec2 {
	return math.Vec2{
		X: (float64(x) + 0.5) * g.cellSize,
		Y: (float64(y) + 0.5) * g.cellSize,
	}
}

// index maps grid coordinates to the flat cell slice.
func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// cellAt reads a cell without locking; the caller must hold g.mu.
func (g *Grid) cellAt(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// walkableAt reads walkability without locking; the caller must hold
// g.mu. Out-of-bounds coordinates are not walkable.
func (g *Grid) walkableAt(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[g.index(x, y)].Walkable
}
