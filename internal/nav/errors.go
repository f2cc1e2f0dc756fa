package nav

import "errors"

// Sentinel errors for grid construction and path searches.
// All of them are recoverable: callers may retry with a new mask
// or different endpoints.
var (
	// ErrNoSourceImage indicates no mask bitmap was available to build a grid.
	ErrNoSourceImage = errors.New("nav: no source mask available")
	// ErrEmptyGrid indicates the mask dimensions are not positive.
	ErrEmptyGrid = errors.New("nav: grid must have positive dimensions")
	// ErrBlockedEndpoint indicates the start or goal cell is not Free.
	ErrBlockedEndpoint = errors.New("nav: start or goal cell is blocked")
	// ErrUnreachable indicates the frontier emptied before reaching the goal.
	ErrUnreachable = errors.New("nav: goal is unreachable")
	// ErrIterationLimit indicates the search exceeded its iteration cap.
	ErrIterationLimit = errors.New("nav: iteration limit exceeded")
)
