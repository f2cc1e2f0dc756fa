package nav

// HasLineOfSight reports whether the straight segment between a and b
// traverses only Free cells, endpoints included. The check is pure and
// reads nothing but the immutable grid.
func (e *Engine) HasLineOfSight(a, b Point) bool {
	if !e.grid.InBounds(a.X, a.Y) || !e.grid.InBounds(b.X, b.Y) {
		return false
	}

	it := NewLineIterator(a.X, a.Y, b.X, b.Y)
	for it.Next() {
		if !e.grid.IsFree(it.X(), it.Y()) {
			return false
		}
	}
	return true
}
