package timeline

import "shortreel/compose"

// Enforce walks segments in ascending priority order and decides which make
// it into the plan under budgetSeconds. Title and body segments are always
// included, even when they alone exceed the budget; the check starts at the
// first comment. The first comment that would push the cumulative total past
// the budget (the boundary itself is inclusive) is excluded together with
// every remaining lower-priority segment. This is a priority cutoff, not a
// knapsack: no later segment is reconsidered even if it would individually fit.
func Enforce(segments []SegmentTiming, budgetSeconds float64) (included []SegmentTiming, excludedIDs []string) {
	cumulative := 0.0
	for i, st := range segments {
		total := st.TotalSeconds()
		if st.Segment.Kind != compose.KindComment || cumulative+total <= budgetSeconds {
			included = append(included, st)
			cumulative += total
			continue
		}
		for _, rest := range segments[i:] {
			excludedIDs = append(excludedIDs, rest.Segment.ID)
		}
		break
	}
	return included, excludedIDs
}
