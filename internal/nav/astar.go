package nav

import (
	"container/heap"
	"math"
)

// Engine runs path searches against one immutable Grid. All per-search
// state is private to a single FindPath call, so one Engine may serve
// concurrent searches. Rebuilding a grid while a search runs against it is
// not supported; swap in a new Grid and Engine instead.
type Engine struct {
	grid *Grid
}

// NewEngine creates an Engine over the given grid.
func NewEngine(grid *Grid) *Engine {
	return &Engine{grid: grid}
}

// Grid returns the grid this engine searches.
func (e *Engine) Grid() *Grid { return e.grid }

// Result describes a finished search.
type Result struct {
	Points   []Point // cells from start to goal inclusive; nil when no path was found
	Cost     float64 // accumulated move cost along Points
	Expanded int     // cells finalized during the search
}

// Per-cell search lifecycle. Closed is terminal: a closed cell is never
// reopened or relaxed again.
const (
	cellUnvisited byte = iota
	cellOpen
	cellClosed
)

// searchNode is the per-cell bookkeeping record of one search, held in a
// dense table indexed like the grid. gCost only ever decreases until the
// cell closes.
type searchNode struct {
	gCost  float64
	hCost  float64
	parent int32 // dense index of the predecessor; -1 at the start
	state  byte
}

// openEntry is one frontier entry. A relaxation pushes a fresh entry
// rather than re-keying the old one; superseded entries are recognized and
// skipped when popped.
type openEntry struct {
	idx   int32
	fCost float64
	hCost float64
}

// openHeap is a binary min-heap ordered by fCost, then hCost.
type openHeap []openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	// Equal totals resolve toward the cell nearer the goal.
	return h[i].hCost < h[j].hCost
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)   { *h = append(*h, x.(openEntry)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// neighborOffsets enumerates the 8-connected neighborhood clockwise from
// north. The fixed order keeps searches reproducible.
var neighborOffsets = [8]Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// FindPath searches for a low-cost route from start to goal. Orthogonal
// steps cost 1, diagonal steps √2, and a step that changes direction pays
// TurnPenalty extra. Both endpoints must be Free; the caller resolves and
// clamps them first (see Grid.ResolveEndpoints).
//
// On failure the Result carries no points and the error tells the modes
// apart: ErrBlockedEndpoint before any search state is allocated,
// ErrUnreachable when the frontier empties, ErrIterationLimit when the
// search exceeds IterationCapFactor×width×height iterations.
func (e *Engine) FindPath(start, goal Point) (Result, error) {
	g := e.grid
	if !g.IsFree(start.X, start.Y) || !g.IsFree(goal.X, goal.Y) {
		return Result{}, ErrBlockedEndpoint
	}

	// Already there.
	if start == goal {
		return Result{Points: []Point{start}}, nil
	}

	startIdx := g.index(start.X, start.Y)
	goalIdx := g.index(goal.X, goal.Y)

	nodes := make([]searchNode, g.width*g.height)
	sn := &nodes[startIdx]
	sn.hCost = heuristic(start, goal)
	sn.parent = -1
	sn.state = cellOpen

	open := make(openHeap, 0, 64)
	heap.Init(&open)
	heap.Push(&open, openEntry{idx: startIdx, fCost: sn.hCost, hCost: sn.hCost})

	expanded := 0
	maxIterations := IterationCapFactor * g.width * g.height

	for range maxIterations {
		if open.Len() == 0 {
			return Result{Expanded: expanded}, ErrUnreachable
		}

		entry := heap.Pop(&open).(openEntry)
		cur := &nodes[entry.idx]
		if cur.state == cellClosed {
			continue // Superseded duplicate.
		}
		cur.state = cellClosed
		expanded++

		if entry.idx == goalIdx {
			return Result{
				Points:   buildPath(g, nodes, goalIdx),
				Cost:     cur.gCost,
				Expanded: expanded,
			}, nil
		}

		curPt := g.pointAt(entry.idx)

		// Direction of arrival, for the straightness penalty. The start
		// cell has no predecessor and penalizes nothing.
		hasDir := cur.parent >= 0
		var dirX, dirY int
		if hasDir {
			prev := g.pointAt(cur.parent)
			dirX = curPt.X - prev.X
			dirY = curPt.Y - prev.Y
		}

		for _, off := range neighborOffsets {
			nx := curPt.X + off.X
			ny := curPt.Y + off.Y
			if !g.IsFree(nx, ny) {
				continue // Out of bounds or blocked.
			}

			nIdx := g.index(nx, ny)
			nb := &nodes[nIdx]
			if nb.state == cellClosed {
				continue
			}

			moveCost := CostOrthogonal
			if off.X != 0 && off.Y != 0 {
				moveCost = CostDiagonal
			}
			if hasDir && (off.X != dirX || off.Y != dirY) {
				moveCost += TurnPenalty
			}
			tentativeG := cur.gCost + moveCost

			if nb.state == cellUnvisited {
				nb.gCost = tentativeG
				nb.hCost = heuristic(Point{X: nx, Y: ny}, goal)
				nb.parent = entry.idx
				nb.state = cellOpen
				heap.Push(&open, openEntry{idx: nIdx, fCost: tentativeG + nb.hCost, hCost: nb.hCost})
				continue
			}

			// Open and improved: relax and reinsert. The entry already in
			// the heap keeps its old key and is skipped once popped.
			if tentativeG < nb.gCost {
				nb.gCost = tentativeG
				nb.parent = entry.idx
				heap.Push(&open, openEntry{idx: nIdx, fCost: tentativeG + nb.hCost, hCost: nb.hCost})
			}
		}
	}

	return Result{Expanded: expanded}, ErrIterationLimit
}

// heuristic estimates the remaining cost as the Euclidean distance
// inflated by HeuristicWeight.
func heuristic(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx+dy*dy) * HeuristicWeight
}
