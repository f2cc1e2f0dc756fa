package nav

import "math"

// OccupancyThreshold splits mask intensities into cell states:
// intensities below it are Blocked, the rest are Free.
const OccupancyThreshold = 128

// Search tuning.
const (
	// CostOrthogonal is the move cost between edge-adjacent cells.
	CostOrthogonal = 1.0
	// CostDiagonal is the move cost between corner-adjacent cells.
	CostDiagonal = math.Sqrt2
	// TurnPenalty is added when a step changes direction, biasing the
	// search toward straight runs.
	TurnPenalty = 0.001
	// HeuristicWeight scales the Euclidean heuristic slightly above 1;
	// equal-cost candidates resolve toward the goal line.
	HeuristicWeight = 1.001
	// IterationCapFactor bounds a search at factor×width×height main-loop
	// iterations.
	IterationCapFactor = 2
)
