package timeline

import (
	"math"

	"shortreel/config"
)

// Allocate distributes a segment's narration time across its pages. Every
// page gets an equal share rounded down to the millisecond; the last page
// absorbs the residual so the sum equals audioSeconds exactly (within
// floating rounding). Each page is floored at config.MinFrameSeconds to keep
// pathological rounding from producing zero or negative durations.
//
// Zero pages yields nil: the segment contributes no frames and callers treat
// it as dropped for video purposes.
func Allocate(pageCount int, audioSeconds float64) []float64 {
	if pageCount <= 0 {
		return nil
	}

	share := math.Floor(audioSeconds/float64(pageCount)*1000) / 1000
	if share < config.MinFrameSeconds {
		share = config.MinFrameSeconds
	}

	durations := make([]float64, pageCount)
	for i := range durations {
		durations[i] = share
	}

	last := audioSeconds - share*float64(pageCount-1)
	if last < config.MinFrameSeconds {
		last = config.MinFrameSeconds
	}
	durations[pageCount-1] = last

	return durations
}
