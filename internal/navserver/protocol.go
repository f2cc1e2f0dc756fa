package navserver

import (
	"encoding/json"
	"fmt"

	"github.com/tablenav/tablenav/internal/nav"
)

// Binary frames start with a one-byte type id. The ids come from the
// tabletop client protocol; camera and finger frames are recognized so they
// can be skipped cleanly, masks come in, paths go out.
const (
	frameCameraFrame byte = 1
	frameMask        byte = 3
	framePath        byte = 4
	frameFingerCount byte = 5
)

// Text frames carry JSON commands.
const (
	commandRoute = "ROUTE"
	commandReset = "RESET"
)

// wirePoint is a grid coordinate in the JSON wire format.
type wirePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p *wirePoint) nav() *nav.Point {
	if p == nil {
		return nil
	}
	return &nav.Point{X: p.X, Y: p.Y}
}

// command is a client text-frame request. Omitted endpoints fall back to
// the grid defaults.
type command struct {
	Command string     `json:"command"`
	Start   *wirePoint `json:"start,omitempty"`
	End     *wirePoint `json:"end,omitempty"`
}

// encodePathFrame wraps a route in the binary path frame: the type byte
// followed by a JSON array of {"x","y"} objects. A nil route encodes as an
// empty array, which is the failure reply.
func encodePathFrame(points []nav.Point) ([]byte, error) {
	wire := make([]wirePoint, 0, len(points))
	for _, p := range points {
		wire = append(wire, wirePoint{X: p.X, Y: p.Y})
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding path frame: %w", err)
	}

	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, framePath)
	frame = append(frame, payload...)
	return frame, nil
}
