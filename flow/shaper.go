package flow

import "github.com/ocroft/folio/template"

// ShapedLine is one laid-out line reported by a Shaper for a single fill
// attempt. Start/Length are bytes into the buffer passed to ShapeLines;
// extents are millimeters.
type ShapedLine struct {
	Start  int
	Length int

	// Ink extents of the visible glyphs. InkX is measured from the frame's
	// leading edge, InkY from the baseline (negative above it).
	InkX, InkY, InkW, InkH float64

	// Logical extents anchor the pen for the graphics backend.
	LogicalX, LogicalW float64

	// Height is the logical line advance including extra line spacing.
	Height float64
	// Ascent is the distance from the line top down to the baseline. A zero
	// or negative value means the shaper reports no metric; callers fall
	// back to 0.8×Height.
	Ascent float64

	// RTL is the resolved direction of this line.
	RTL bool
}

// ShapeRequest configures one frame fill attempt.
type ShapeRequest struct {
	Width       float64 // wrap width in mm
	Alignment   template.Alignment
	Font        string // family/style/size descriptor, e.g. "Serif Normal 10"
	Language    string
	Direction   template.Direction
	LineSpacing float64 // extra inter-line spacing in mm
}

// Shaper lays out a byte buffer into a finite ordered sequence of lines.
// The contract the pagination relies on: lines tile the buffer exactly
// (line[0].Start == 0, each line starts where the previous one ended, the
// last line ends at len(text)), every line boundary falls on a character
// boundary, and the sequence is never empty for a non-empty buffer.
type Shaper interface {
	ShapeLines(text []byte, req ShapeRequest) ([]ShapedLine, error)
}
