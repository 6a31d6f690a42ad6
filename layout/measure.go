package layout

import (
	"errors"
	"fmt"
	"os"

	"github.com/tdewolff/canvas"
)

// ErrMeasurementUnavailable reports that no glyph measurer could be
// constructed, typically because no usable font file was found.
var ErrMeasurementUnavailable = errors.New("glyph measurement unavailable")

// Measurer reports the rendered width of a string in frame units.
// Implementations must be deterministic and monotonic: appending text to a
// string never decreases its measured width.
type Measurer interface {
	TextWidth(s string) float64
}

// canvas font sizes are in points while frame geometry is in pixels
const pointsPerPixel = 72.0 / 25.4

// candidate font files, checked in order when no explicit path is given
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"C:/Windows/Fonts/arialuni.ttf",
}

// FaceMeasurer measures text with a loaded canvas font face.
type FaceMeasurer struct {
	face *canvas.FontFace
}

// NewFaceMeasurer loads fontPath (or the first available system font when
// fontPath is empty) and returns a measurer for the given pixel size.
// Returns ErrMeasurementUnavailable when no font can be loaded; callers are
// expected to fall back to a FixedAdvance measurer.
func NewFaceMeasurer(fontPath string, sizePx float64) (*FaceMeasurer, error) {
	family, err := LoadFontFamily(fontPath)
	if err != nil {
		return nil, err
	}
	return &FaceMeasurer{face: family.Face(sizePx*pointsPerPixel, canvas.Black, canvas.FontRegular, canvas.FontNormal)}, nil
}

// LoadFontFamily loads a font family from fontPath, or from the first
// readable system font when fontPath is empty.
func LoadFontFamily(fontPath string) (*canvas.FontFamily, error) {
	paths := systemFontPaths
	if fontPath != "" {
		paths = []string{fontPath}
	}
	family := canvas.NewFontFamily("shortreel")
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			continue
		}
		return family, nil
	}
	return nil, fmt.Errorf("no usable font among %d candidates: %w", len(paths), ErrMeasurementUnavailable)
}

func (m *FaceMeasurer) TextWidth(s string) float64 {
	return m.face.TextWidth(s)
}

// FixedAdvance is the fallback measurer used when no font is available. It
// charges every rune half the font size, the same heuristic the frame
// renderer falls back to.
type FixedAdvance struct {
	// Advance is the assumed width of one rune in frame units.
	Advance float64
}

// NewFixedAdvance returns a fallback measurer for the given font pixel size.
func NewFixedAdvance(sizePx float64) FixedAdvance {
	return FixedAdvance{Advance: sizePx / 2}
}

func (m FixedAdvance) TextWidth(s string) float64 {
	n := 0
	for range s {
		n++
	}
	return float64(n) * m.Advance
}
