package objects

// SelectBest picks the candidate region for a class.
//
// Candidates smaller than MinArea are dropped regardless of shape. When
// MinAspect is set, candidates whose bounding box aspect ratio
// (max side / min side) falls below it are dropped too. The largest
// surviving area wins. Equal areas resolve to the leftmost box, then the
// topmost, then the one seen first, so the result does not depend on the
// order in which the contour scan reports regions with distinct boxes.
func SelectBest(cands []Candidate, p ColorProfile) (Candidate, bool) {
	var best Candidate
	found := false

	for _, c := range cands {
		if c.Area < p.MinArea {
			continue
		}
		if p.MinAspect > 0 && c.Box.AspectRatio() < p.MinAspect {
			continue
		}
		if !found || better(c, best) {
			best = c
			found = true
		}
	}
	return best, found
}

// better reports whether a beats b under the area/leftmost/topmost order.
func better(a, b Candidate) bool {
	if a.Area != b.Area {
		return a.Area > b.Area
	}
	if a.Box.X != b.Box.X {
		return a.Box.X < b.Box.X
	}
	return a.Box.Y < b.Box.Y
}
