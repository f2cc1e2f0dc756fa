package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tablenav/tablenav/internal/nav"
)

// routeSpec is one requested route; nil endpoints use the grid defaults.
type routeSpec struct {
	start *nav.Point
	end   *nav.Point
}

// parseRoute parses "x1,y1:x2,y2". Either side may be empty to use the
// default endpoint, so ":" plans the default crossing.
func parseRoute(s string) (routeSpec, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return routeSpec{}, fmt.Errorf("invalid route %q: want \"x1,y1:x2,y2\"", s)
	}

	var spec routeSpec
	var err error
	if spec.start, err = parsePoint(left); err != nil {
		return routeSpec{}, fmt.Errorf("invalid route %q: %w", s, err)
	}
	if spec.end, err = parsePoint(right); err != nil {
		return routeSpec{}, fmt.Errorf("invalid route %q: %w", s, err)
	}
	return spec, nil
}

func parsePoint(s string) (*nav.Point, error) {
	if s == "" {
		return nil, nil
	}

	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("want \"x,y\", got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return nil, fmt.Errorf("bad x in %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return nil, fmt.Errorf("bad y in %q", s)
	}
	return &nav.Point{X: x, Y: y}, nil
}
