package index

import "sort"

// Locate finds the greatest recorded offset at or before position.
// Offsets must be sorted ascending. The second return is false when the
// list is empty or no offset precedes the position; callers render a
// placeholder in that case. Pure function, no side effects.
func Locate(offsets []int, position int) (int, bool) {
	if len(offsets) == 0 {
		return 0, false
	}
	i := sort.SearchInts(offsets, position)
	if i < len(offsets) && offsets[i] == position {
		return position, true
	}
	if i == 0 {
		return 0, false
	}
	return offsets[i-1], true
}
