// Package timeline maps narration durations onto paginated frames and
// enforces the total-duration budget for a post.
package timeline

import (
	"fmt"

	"shortreel/compose"
	"shortreel/layout"
)

// AudioDuration is the measured length of one segment's narration.
type AudioDuration struct {
	SegmentID string
	Seconds   float64
}

// FrameDuration pairs a page with its on-screen display time.
type FrameDuration struct {
	Page    layout.Page
	Seconds float64
}

// SegmentTiming holds everything the budget and build passes need for one
// segment. Pages and Durations are index-aligned.
type SegmentTiming struct {
	Segment   compose.Segment
	Pages     []layout.Page
	Durations []float64
}

// TotalSeconds is the segment's full narration time across its pages.
func (st SegmentTiming) TotalSeconds() float64 {
	total := 0.0
	for _, d := range st.Durations {
		total += d
	}
	return total
}

// VideoPlan is the final ordered frame sequence for one post, consumed by
// the video assembler.
type VideoPlan struct {
	PostID           string
	Frames           []FrameDuration
	TotalSeconds     float64
	BudgetSeconds    float64
	ExcludedSegments []string
}

// Empty reports whether the plan carries no frames at all.
func (p VideoPlan) Empty() bool { return len(p.Frames) == 0 }

// Diagnostic surfaces an internal invariant violation for a single segment.
// The segment is excluded from the plan; the post as a whole proceeds.
type Diagnostic struct {
	SegmentID string
	Reason    string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("segment %s: %s", d.SegmentID, d.Reason)
}
