package iter

import "bytes"

// RangeOverlap reports whether the query range [queryLower, queryUpper]
// overlaps the target range [targetLower, targetUpper], honoring included
// vs. excluded edges on the query side.
func RangeOverlap(queryLower, queryUpper Bound, targetLower, targetUpper []byte) bool {
	disjointLesser := false
	switch queryUpper.Kind {
	case Included:
		disjointLesser = bytes.Compare(queryUpper.Key, targetLower) < 0
	case Excluded:
		disjointLesser = bytes.Compare(queryUpper.Key, targetLower) <= 0
	case Unbounded:
		disjointLesser = false
	}

	disjointGreater := false
	switch queryLower.Kind {
	case Included:
		disjointGreater = bytes.Compare(queryLower.Key, targetUpper) > 0
	case Excluded:
		disjointGreater = bytes.Compare(queryLower.Key, targetUpper) >= 0
	case Unbounded:
		disjointGreater = false
	}

	return !disjointLesser && !disjointGreater
}
