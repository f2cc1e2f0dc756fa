// Package nav plans routes over occupancy grids derived from table mask
// images: grid construction from per-pixel intensities, A* search with
// directional-change penalties, Bresenham line-of-sight checks, and
// optional path smoothing.
package nav

import (
	"image"
	"image/color"
)

// Point is a cell coordinate on a Grid.
type Point struct {
	X, Y int
}

// CellState marks a grid cell as traversable or not.
type CellState byte

const (
	// CellFree allows traversal.
	CellFree CellState = iota
	// CellBlocked is an obstacle.
	CellBlocked
)

// Grid is an immutable occupancy grid. Cells are stored in a dense slice
// indexed y*width+x. A built Grid never changes, so it is safe to share
// between concurrent read-only searches.
type Grid struct {
	width  int
	height int
	cells  []CellState
}

// NewGrid builds a Grid from a linear intensity buffer laid out y*width+x.
// Intensities below OccupancyThreshold become Blocked cells. Buffers shorter
// than width×height degrade to Free for the missing tail: an absent reading
// means open table, not an obstacle.
func NewGrid(width, height int, intensity []byte) (*Grid, error) {
	if intensity == nil {
		return nil, ErrNoSourceImage
	}
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}

	cells := make([]CellState, width*height)
	for i := range cells {
		if i < len(intensity) && intensity[i] < OccupancyThreshold {
			cells[i] = CellBlocked
		}
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

// NewGridFromImage builds a Grid from any image, using the grayscale
// intensity of each pixel.
func NewGridFromImage(img image.Image) (*Grid, error) {
	if img == nil {
		return nil, ErrNoSourceImage
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyGrid
	}

	intensity := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			intensity[y*w+x] = gray.Y
		}
	}

	return NewGrid(w, h, intensity)
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// State returns the cell state at (x, y). Out-of-bounds cells read as
// Blocked so that traversal checks fail closed.
func (g *Grid) State(x, y int) CellState {
	if !g.InBounds(x, y) {
		return CellBlocked
	}
	return g.cells[y*g.width+x]
}

// IsFree reports whether (x, y) is an in-bounds Free cell.
func (g *Grid) IsFree(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.width+x] == CellFree
}

// BlockedRatio returns the fraction of Blocked cells, used for mask sanity
// diagnostics.
func (g *Grid) BlockedRatio() float64 {
	blocked := 0
	for _, c := range g.cells {
		if c == CellBlocked {
			blocked++
		}
	}
	return float64(blocked) / float64(len(g.cells))
}

// DefaultStart is the right-edge midpoint, the conventional entry side of
// a table crossing.
func (g *Grid) DefaultStart() Point {
	return Point{X: g.width - 1, Y: g.height / 2}
}

// DefaultEnd is the left-edge midpoint.
func (g *Grid) DefaultEnd() Point {
	return Point{X: 0, Y: g.height / 2}
}

// Clamp forces p into [0,width-1]×[0,height-1].
func (g *Grid) Clamp(p Point) Point {
	if p.X < 0 {
		p.X = 0
	} else if p.X >= g.width {
		p.X = g.width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y >= g.height {
		p.Y = g.height - 1
	}
	return p
}

// ResolveEndpoints turns optional endpoints into concrete cells: nil means
// unset and selects the default right-to-left crossing; explicit points are
// clamped into bounds. A nil pointer is the only way to get the defaults, so
// a caller-chosen (0,0) is never silently overridden.
func (g *Grid) ResolveEndpoints(start, end *Point) (Point, Point) {
	s := g.DefaultStart()
	if start != nil {
		s = g.Clamp(*start)
	}
	e := g.DefaultEnd()
	if end != nil {
		e = g.Clamp(*end)
	}
	return s, e
}

// index returns the dense cell index for (x, y).
func (g *Grid) index(x, y int) int32 {
	return int32(y*g.width + x)
}

// pointAt returns the coordinates of a dense cell index.
func (g *Grid) pointAt(idx int32) Point {
	return Point{X: int(idx) % g.width, Y: int(idx) / g.width}
}
