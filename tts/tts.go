// Package tts synthesizes narration audio for post segments and measures
// the resulting durations.
package tts

import (
	"context"
	"fmt"
)

// Asset is one synthesized narration clip on disk.
type Asset struct {
	SegmentID string
	Path      string
	Seconds   float64
}

// Synthesizer produces a narration clip for one segment's text.
type Synthesizer interface {
	Synthesize(ctx context.Context, segmentID, text, outPath string) (Asset, error)
}

// SynthesisError marks a segment whose narration could not be produced.
// The pipeline drops the segment and continues with the rest of the post.
type SynthesisError struct {
	SegmentID string
	Err       error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed for segment %s: %v", e.SegmentID, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
