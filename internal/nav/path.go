package nav

// buildPath walks predecessor links from the goal back to the start, then
// reverses the walk into start→goal order. The walk is bounded by the node
// table size; predecessor links stay acyclic under monotonic cost
// improvement.
func buildPath(g *Grid, nodes []searchNode, goalIdx int32) []Point {
	points := make([]Point, 0, 32)
	idx := goalIdx
	for range len(nodes) {
		points = append(points, g.pointAt(idx))
		parent := nodes[idx].parent
		if parent < 0 {
			break
		}
		idx = parent
	}

	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

// Smooth drops waypoints a straight line can skip: from each kept cell it
// jumps to the furthest later waypoint still in line of sight and repeats
// from there. The first and last waypoints are preserved and the returned
// sequence still traverses only Free cells. FindPath never smooths on its
// own; callers opt in.
func (e *Engine) Smooth(points []Point) []Point {
	if len(points) <= 2 {
		return points
	}

	smoothed := make([]Point, 0, len(points))
	smoothed = append(smoothed, points[0])

	i := 0
	for i < len(points)-1 {
		j := len(points) - 1
		for j > i+1 && !e.HasLineOfSight(points[i], points[j]) {
			j--
		}
		smoothed = append(smoothed, points[j])
		i = j
	}
	return smoothed
}
