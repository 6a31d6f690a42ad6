package timeline

import "fmt"

// Build flattens the included segments' (page, duration) pairs, in segment
// priority order, into the final plan. TotalSeconds is the exact sum of the
// emitted durations, not re-derived from the narration audio.
//
// A segment whose page count does not match its duration count violates an
// internal invariant: it is excluded from the plan and reported as a
// diagnostic rather than silently ignored.
func Build(postID string, included []SegmentTiming, budgetSeconds float64, excludedIDs []string) (VideoPlan, []Diagnostic) {
	plan := VideoPlan{
		PostID:           postID,
		BudgetSeconds:    budgetSeconds,
		ExcludedSegments: excludedIDs,
	}

	var diagnostics []Diagnostic
	for _, st := range included {
		if len(st.Pages) != len(st.Durations) {
			diagnostics = append(diagnostics, Diagnostic{
				SegmentID: st.Segment.ID,
				Reason:    fmt.Sprintf("page count %d does not match duration count %d", len(st.Pages), len(st.Durations)),
			})
			continue
		}
		for i, page := range st.Pages {
			plan.Frames = append(plan.Frames, FrameDuration{Page: page, Seconds: st.Durations[i]})
			plan.TotalSeconds += st.Durations[i]
		}
	}

	return plan, diagnostics
}
