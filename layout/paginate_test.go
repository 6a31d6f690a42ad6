package layout

import (
	"strings"
	"testing"
)

func TestPaginatePartitioning(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "l3", "l4"}
	pages, err := Paginate("body", lines, 2, 0, nil, 0, "...")
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	wantSizes := []int{2, 2, 1}
	total := 0
	for i, page := range pages {
		if page.Index != i {
			t.Fatalf("page %d has index %d", i, page.Index)
		}
		if page.SegmentID != "body" {
			t.Fatalf("page %d has segment id %q", i, page.SegmentID)
		}
		if len(page.Lines) != wantSizes[i] {
			t.Fatalf("page %d has %d lines, want %d", i, len(page.Lines), wantSizes[i])
		}
		if page.Truncated {
			t.Fatalf("page %d unexpectedly truncated", i)
		}
		total += len(page.Lines)
	}
	if total != len(lines) {
		t.Fatalf("pagination lost lines: %d of %d", total, len(lines))
	}
}

func TestPaginateZeroCapacity(t *testing.T) {
	pages, err := Paginate("title", []string{"only line"}, 0, 0, nil, 0, "...")
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if pages != nil {
		t.Fatalf("expected zero pages for zero capacity, got %d", len(pages))
	}
}

func TestPaginateTruncation(t *testing.T) {
	m := FixedAdvance{Advance: 10}
	const maxWidth = 100 // ten runes per line

	lines := []string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 10),
		strings.Repeat("c", 13), // exceeds maxWidth by exactly the ellipsis width
		strings.Repeat("d", 10),
	}
	pages, err := Paginate("comment_0", lines, 2, 3, m, maxWidth, "...")
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages for 3 retained lines at capacity 2, got %d", len(pages))
	}

	retained := 0
	for _, page := range pages {
		retained += len(page.Lines)
	}
	if retained != 3 {
		t.Fatalf("expected 3 retained lines, got %d", retained)
	}

	if pages[0].Truncated {
		t.Fatalf("only the final page may be truncated")
	}
	last := pages[len(pages)-1]
	if !last.Truncated {
		t.Fatalf("final page not marked truncated")
	}

	lastLine := last.Lines[len(last.Lines)-1]
	if !strings.HasSuffix(lastLine, "...") {
		t.Fatalf("truncated line %q does not end with ellipsis", lastLine)
	}
	if w := m.TextWidth(lastLine); w > maxWidth {
		t.Fatalf("truncated line %q measures %.0f, exceeds maxWidth", lastLine, w)
	}
	if lastLine == "..." {
		t.Fatalf("truncation removed all original text")
	}
	if want := strings.Repeat("c", 7) + "..."; lastLine != want {
		t.Fatalf("truncated line = %q, want %q", lastLine, want)
	}
}

func TestPaginateNoTruncationWhenWithinLimit(t *testing.T) {
	m := FixedAdvance{Advance: 10}
	lines := []string{"aa", "bb"}
	pages, err := Paginate("body", lines, 2, 5, m, 100, "...")
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(pages) != 1 || pages[0].Truncated {
		t.Fatalf("unexpected truncation for %d lines under limit 5", len(lines))
	}
	if pages[0].Lines[1] != "bb" {
		t.Fatalf("lines modified without truncation: %v", pages[0].Lines)
	}
}
