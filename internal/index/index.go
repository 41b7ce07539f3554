package index

import "strings"

// Index is the structural table of contents for one story: line offsets
// where chapters and volumes begin, in scan order.
type Index struct {
	Chapters []int
	Volumes  []int
	// LabelOverrides replaces the line text at an offset when a two-line
	// heading was merged during the scan.
	LabelOverrides map[int]string
}

// Build scans the line sequence once and records chapter and volume
// offsets per the story's rules. The scan is strictly forward, so both
// offset lists come out strictly increasing.
func Build(lines []string, r Rules) Index {
	idx := Index{LabelOverrides: map[int]string{}}
	for i, line := range lines {
		switch {
		case r.Chapter != nil && r.Chapter.MatchString(line):
			if r.ContinuationMark != "" && strings.Contains(line, r.ContinuationMark) && len(idx.Chapters) > 0 {
				idx.mergeContinuation(lines, r)
				continue
			}
			idx.Chapters = append(idx.Chapters, i)
		case r.ContinuationMark != "" && strings.Contains(line, r.ContinuationMark) &&
			len(idx.Chapters) > 0 && i == idx.Chapters[len(idx.Chapters)-1]+1:
			idx.mergeContinuation(lines, r)
		case r.Volume != nil && r.Volume.MatchString(line):
			// Skip consecutive repeats of the same heading (running headers).
			if len(idx.Volumes) == 0 || line != lines[idx.Volumes[len(idx.Volumes)-1]] {
				idx.Volumes = append(idx.Volumes, i)
			}
		}
	}
	return idx
}

// mergeContinuation appends the continuation text to the label of the most
// recently recorded chapter offset rather than opening a new entry. Callers
// guarantee at least one chapter has been recorded.
func (idx *Index) mergeContinuation(lines []string, r Rules) {
	last := idx.Chapters[len(idx.Chapters)-1]
	base := lines[last]
	if o, ok := idx.LabelOverrides[last]; ok {
		base = o
	}
	idx.LabelOverrides[last] = base + " " + strings.Trim(r.ContinuationMark, "*")
}
