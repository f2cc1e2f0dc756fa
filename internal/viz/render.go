// Package viz renders occupancy grids and planned routes into diagnostic
// PNG images.
package viz

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/tablenav/tablenav/internal/nav"
)

var (
	colorBackground = color.RGBA{A: 255}
	colorBlocked    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorPath       = color.RGBA{G: 255, A: 255}
	colorStart      = color.RGBA{R: 255, A: 255}
	colorGoal       = color.RGBA{B: 255, A: 255}
)

// Render draws the grid with the route overlaid, one cell per scale×scale
// pixel block. Obstacles render white on black, the route green, the start
// marker red and the goal marker blue.
func Render(grid *nav.Grid, path []nav.Point, scale int) image.Image {
	return draw(grid, path, scale).Image()
}

// SavePNG renders the grid and route and writes the image to filename.
func SavePNG(filename string, grid *nav.Grid, path []nav.Point, scale int) error {
	return draw(grid, path, scale).SavePNG(filename)
}

func draw(grid *nav.Grid, path []nav.Point, scale int) *gg.Context {
	if scale < 1 {
		scale = 1
	}
	s := float64(scale)

	dc := gg.NewContext(grid.Width()*scale, grid.Height()*scale)
	dc.SetColor(colorBackground)
	dc.Clear()

	dc.SetColor(colorBlocked)
	for y := range grid.Height() {
		for x := range grid.Width() {
			if grid.State(x, y) == nav.CellBlocked {
				dc.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
				dc.Fill()
			}
		}
	}

	if len(path) > 1 {
		dc.SetColor(colorPath)
		dc.SetLineWidth(s)
		dc.MoveTo(float64(path[0].X)*s+s/2, float64(path[0].Y)*s+s/2)
		for _, p := range path[1:] {
			dc.LineTo(float64(p.X)*s+s/2, float64(p.Y)*s+s/2)
		}
		dc.Stroke()
	}

	if len(path) > 0 {
		start, goal := path[0], path[len(path)-1]

		dc.SetColor(colorStart)
		dc.DrawCircle(float64(start.X)*s+s/2, float64(start.Y)*s+s/2, s/2)
		dc.Fill()

		dc.SetColor(colorGoal)
		dc.DrawCircle(float64(goal.X)*s+s/2, float64(goal.Y)*s+s/2, s/2)
		dc.Fill()
	}

	return dc
}
