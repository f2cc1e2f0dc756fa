package nav

// LineIterator steps through the grid cells of a straight segment using
// integer Bresenham stepping. It visits the start cell first and stops
// after the end cell.
type LineIterator struct {
	curX, curY int
	endX, endY int
	deltaX     int
	deltaY     int
	stepX      int
	stepY      int
	errAcc     int
	xDominant  bool
	started    bool
}

// NewLineIterator creates a line iterator from (sx, sy) to (ex, ey).
func NewLineIterator(sx, sy, ex, ey int) *LineIterator {
	it := &LineIterator{
		curX: sx, curY: sy,
		endX: ex, endY: ey,
	}

	it.deltaX = absInt(ex - sx)
	it.deltaY = absInt(ey - sy)

	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sy < ey {
		it.stepY = 1
	} else {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.errAcc = it.deltaX / 2
	} else {
		it.errAcc = it.deltaY / 2
	}

	return it
}

// Next advances the iterator to the next cell.
// Returns false once the end cell has been consumed.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // Start cell.
	}

	if it.curX == it.endX && it.curY == it.endY {
		return false
	}

	if it.xDominant {
		it.curX += it.stepX
		it.errAcc += it.deltaY
		if it.errAcc >= it.deltaX {
			it.curY += it.stepY
			it.errAcc -= it.deltaX
		}
	} else {
		it.curY += it.stepY
		it.errAcc += it.deltaX
		if it.errAcc >= it.deltaY {
			it.curX += it.stepX
			it.errAcc -= it.deltaY
		}
	}

	return true
}

// X returns the current cell X.
func (it *LineIterator) X() int { return it.curX }

// Y returns the current cell Y.
func (it *LineIterator) Y() int { return it.curY }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
