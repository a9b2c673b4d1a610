package nav

import (
	"container/heap"
	gomath "math"

	"go.uber.org/zap"

	"github.com/warhelm/navcore/internal/logger"
	"github.com/warhelm/navcore/pkg/math"
)

// Path is an ordered sequence of world-space waypoints. Valid is false
// when no path exists or the endpoints are unusable; Aborted is
// additionally true when the search gave up after exhausting its
// iteration budget, which is not the same as proving no path exists.
type Path struct {
	Waypoints []math.Vec2
	Valid     bool
	Aborted   bool
}

// Length returns the number of waypoints.
func (p Path) Length() int { return len(p.Waypoints) }

// pathNode is one A* search node. Nodes live in a per-search arena
// slice and reference their parent by arena index, so reconstruction
// never chases live pointers into a reallocated backing array.
type pathNode struct {
	x, y      int
	g, h, f   float64
	parent    int    // arena index, -1 for the start node
	seq       uint64 // insertion order, breaks F ties deterministically
	heapIndex int
}

// searchState holds the per-call open heap and node arena. Each
// FindPath call owns its own searchState, so independent searches can
// run concurrently against one grid.
type searchState struct {
	arena []pathNode
	open  []int // heap of arena indices, ordered by (f, seq)
}

func (s *searchState) Len() int { return len(s.open) }

func (s *searchState) Less(i, j int) bool {
	a, b := &s.arena[s.open[i]], &s.arena[s.open[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	// First inserted wins. Lockstep peers must pop in identical order.
	return a.seq < b.seq
}

func (s *searchState) Swap(i, j int) {
	s.open[i], s.open[j] = s.open[j], s.open[i]
	s.arena[s.open[i]].heapIndex = i
	s.arena[s.open[j]].heapIndex = j
}

func (s *searchState) Push(x interface{}) {
	idx := x.(int)
	s.arena[idx].heapIndex = len(s.open)
	s.open = append(s.open, idx)
}

func (s *searchState) Pop() interface{} {
	old := s.open
	n := len(old)
	idx := old[n-1]
	s.arena[idx].heapIndex = -1
	s.open = old[:n-1]
	return idx
}

// Pathfinder runs A* searches against a navigation grid. It only reads
// the grid and keeps all search state per call, so a single Pathfinder
// may serve concurrent FindPath calls.
type Pathfinder struct {
	grid *Grid

	// maxIterations bounds one search; 0 means width*height.
	maxIterations int
	// occupancyPenalty is added to a cell's step cost while a unit
	// occupies it; 0 disables occupancy awareness.
	occupancyPenalty float64
}

// NewPathfinder creates a pathfinder bound to the given grid.
func NewPathfinder(grid *Grid) *Pathfinder {
	return &Pathfinder{grid: grid}
}

// SetMaxIterations sets the search iteration budget. 0 restores the
// default of width*height.
func (pf *Pathfinder) SetMaxIterations(n int) {
	pf.maxIterations = n
}

// SetOccupancyPenalty sets the extra step cost for occupied cells.
func (pf *Pathfinder) SetOccupancyPenalty(p float64) {
	pf.occupancyPenalty = p
}

// Neighbor iteration order is fixed: S, SW, W, NW, N, NE, E, SE. Odd
// indices are diagonal. Changing this order changes tie resolution and
// breaks lockstep with older peers.
var directions = [8][2]int{
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
}

// FindPath finds a path between two world positions using A* over the
// 8-connected grid. It never mutates the grid.
//
// An unwalkable or out-of-extent start or goal yields Valid:false
// immediately; that is an expected outcome, not a fault. Diagonal steps
// are allowed even between two blocked corner cells; several consumers
// depend on the resulting path shapes, so do not tighten this without
// revisiting them.
func (pf *Pathfinder) FindPath(start, goal math.Vec2) Path {
	g := pf.grid

	startX, startY := g.WorldToGrid(start)
	goalX, goalY := g.WorldToGrid(goal)

	if !g.InBounds(startX, startY) || !g.InBounds(goalX, goalY) {
		return Path{}
	}

	// Hold the read lock for the whole search so terrain updates cannot
	// interleave with cell reads.
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.walkableAt(startX, startY) || !g.walkableAt(goalX, goalY) {
		return Path{}
	}

	state := &searchState{
		arena: make([]pathNode, 0, 64),
		open:  make([]int, 0, 64),
	}
	heap.Init(state)

	closed := make(map[int]bool)
	// grid key -> arena index
	known := make(map[int]int)

	var seq uint64

	startNode := pathNode{
		x:      startX,
		y:      startY,
		h:      pf.heuristic(startX, startY, goalX, goalY),
		parent: -1,
		seq:    seq,
	}
	startNode.f = startNode.g + startNode.h
	seq++
	state.arena = append(state.arena, startNode)
	known[g.index(startX, startY)] = 0
	heap.Push(state, 0)

	budget := pf.maxIterations
	if budget <= 0 {
		budget = g.width * g.height
	}

	for iterations := 0; state.Len() > 0; iterations++ {
		if iterations >= budget {
			logger.Debug("path search aborted",
				zap.Int("budget", budget),
				zap.Int("open", state.Len()))
			return Path{Aborted: true}
		}

		currentIdx := heap.Pop(state).(int)
		current := state.arena[currentIdx]

		if current.x == goalX && current.y == goalY {
			return pf.reconstructPath(state, currentIdx)
		}

		closed[g.index(current.x, current.y)] = true

		for i, dir := range directions {
			nx, ny := current.x+dir[0], current.y+dir[1]

			if !g.walkableAt(nx, ny) {
				continue
			}
			if closed[g.index(nx, ny)] {
				continue
			}

			cell := g.cellAt(nx, ny)
			stepCost := cell.Cost
			if i%2 == 1 {
				stepCost *= gomath.Sqrt2
			}
			if pf.occupancyPenalty > 0 && cell.Occupant != 0 {
				stepCost += pf.occupancyPenalty
			}

			tentativeG := current.g + stepCost

			if arenaIdx, exists := known[g.index(nx, ny)]; exists {
				neighbor := &state.arena[arenaIdx]
				if tentativeG < neighbor.g {
					neighbor.g = tentativeG
					neighbor.f = neighbor.g + neighbor.h
					neighbor.parent = currentIdx
					if neighbor.heapIndex >= 0 {
						heap.Fix(state, neighbor.heapIndex)
					}
				}
				continue
			}

			node := pathNode{
				x:      nx,
				y:      ny,
				g:      tentativeG,
				h:      pf.heuristic(nx, ny, goalX, goalY),
				parent: currentIdx,
				seq:    seq,
			}
			node.f = node.g + node.h
			seq++
			arenaIdx := len(state.arena)
			state.arena = append(state.arena, node)
			known[g.index(nx, ny)] = arenaIdx
			heap.Push(state, arenaIdx)
		}
	}

	return Path{}
}

// heuristic estimates remaining cost as Manhattan distance in world
// units. This overestimates diagonal legs, trading strict optimality
// for fewer expansions; the resulting path shapes are part of the
// engine's observable behavior.
func (pf *Pathfinder) heuristic(x1, y1, x2, y2 int) float64 {
	dx := absInt(x2 - x1)
	dy := absInt(y2 - y1)
	return float64(dx+dy) * pf.grid.cellSize
}

func (pf *Pathfinder) reconstructPath(state *searchState, goalIdx int) Path {
	var waypoints []math.Vec2
	for idx := goalIdx; idx >= 0; idx = state.arena[idx].parent {
		node := &state.arena[idx]
		waypoints = append(waypoints, pf.grid.GridToWorld(node.x, node.y))
	}
	// Built goal to start; reverse in place.
	for i, j := 0, len(waypoints)-1; i < j; i, j = i+1, j-1 {
		waypoints[i], waypoints[j] = waypoints[j], waypoints[i]
	}
	return Path{Waypoints: waypoints, Valid: true}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
