package layout

import "strings"

// Page is one screen's worth of wrapped lines for a segment.
type Page struct {
	SegmentID string
	Index     int
	Lines     []string
	Truncated bool
}

// Paginate partitions lines into consecutive pages of at most linesPerPage
// lines; the last page may be shorter. A non-positive linesPerPage yields
// zero pages: the segment has no visual room, which callers treat as a
// skipped segment, not an error.
//
// When maxTotalLines is positive and len(lines) exceeds it, only the first
// maxTotalLines lines are retained; the last retained line is trimmed
// rune-by-rune from the end until it fits within maxWidth with the ellipsis
// appended, and the final page is marked truncated.
func Paginate(segmentID string, lines []string, linesPerPage, maxTotalLines int, m Measurer, maxWidth float64, ellipsis string) ([]Page, error) {
	if linesPerPage <= 0 || len(lines) == 0 {
		return nil, nil
	}

	truncated := false
	if maxTotalLines > 0 && len(lines) > maxTotalLines {
		if m == nil {
			return nil, ErrMeasurementUnavailable
		}
		retained := make([]string, maxTotalLines)
		copy(retained, lines[:maxTotalLines])
		retained[maxTotalLines-1] = truncateLine(retained[maxTotalLines-1], m, maxWidth, ellipsis)
		lines = retained
		truncated = true
	}

	var pages []Page
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, Page{
			SegmentID: segmentID,
			Index:     len(pages),
			Lines:     lines[start:end],
		})
	}
	if truncated {
		pages[len(pages)-1].Truncated = true
	}
	return pages, nil
}

// truncateLine removes runes from the end of line until it fits within
// maxWidth with the ellipsis appended. The result always ends with the
// ellipsis and is therefore non-empty.
func truncateLine(line string, m Measurer, maxWidth float64, ellipsis string) string {
	runes := []rune(line)
	for len(runes) > 0 && m.TextWidth(strings.TrimRight(string(runes), " ")+ellipsis) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + ellipsis
}
