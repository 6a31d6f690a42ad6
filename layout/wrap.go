package layout

import "strings"

// Options controls wrapping policy.
type Options struct {
	// BreakLongTokens enables rune-level splitting of tokens that are wider
	// than the line on their own. When false (the default policy) such a
	// token is placed alone on its own line unmodified.
	BreakLongTokens bool
}

// Wrap greedily wraps text into lines no wider than maxWidth.
//
// Paragraph breaks ("\n") are processed first; each paragraph wraps
// independently and tokens never merge across a break. Within a paragraph,
// whitespace-delimited tokens are appended to the current line with a single
// separating space for as long as the measured width stays within maxWidth;
// a token that does not fit closes the current line and opens a new one.
//
// Wrap is deterministic and idempotent: rewrapping its own output (lines
// rejoined with single spaces, paragraph breaks preserved) reproduces the
// same line sequence.
func Wrap(text string, m Measurer, maxWidth float64, opts Options) ([]string, error) {
	if m == nil {
		return nil, ErrMeasurementUnavailable
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		current := ""
		for _, token := range strings.Fields(paragraph) {
			candidate := token
			if current != "" {
				candidate = current + " " + token
			}
			if m.TextWidth(candidate) <= maxWidth {
				current = candidate
				continue
			}

			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if m.TextWidth(token) <= maxWidth {
				current = token
				continue
			}

			if opts.BreakLongTokens {
				fragments := breakToken(token, m, maxWidth)
				lines = append(lines, fragments[:len(fragments)-1]...)
				current = fragments[len(fragments)-1]
			} else {
				// Over-wide token sits alone on its own line.
				lines = append(lines, token)
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines, nil
}

// breakToken splits an over-wide token into greedy fragments whose measured
// widths fit within maxWidth. Every fragment holds at least one rune so the
// split always terminates.
func breakToken(token string, m Measurer, maxWidth float64) []string {
	var fragments []string
	runes := []rune(token)
	for len(runes) > 0 {
		n := 1
		for n < len(runes) && m.TextWidth(string(runes[:n+1])) <= maxWidth {
			n++
		}
		fragments = append(fragments, string(runes[:n]))
		runes = runes[n:]
	}
	return fragments
}

// LinesPerPage computes how many lines fit in availableHeight given the line
// height and inter-line spacing. A result of zero means the segment has no
// visual room and should be skipped.
func LinesPerPage(availableHeight, lineHeight, lineSpacing float64) int {
	step := lineHeight + lineSpacing
	if step <= 0 || availableHeight <= 0 {
		return 0
	}
	return int(availableHeight / step)
}
