package flow

import (
	"log/slog"

	"github.com/ocroft/folio/template"
)

// Padding widens line bounding boxes. Values compose additively: All applies
// to every edge, Horizontal/Vertical to a pair, the per-edge fields to one
// edge each. Baseline extends only the reported baseline endpoints, not the
// bounding box. All values in mm.
type Padding struct {
	All        float64
	Horizontal float64
	Vertical   float64
	Left       float64
	Right      float64
	Top        float64
	Bottom     float64
	Baseline   float64
}

// Edges returns the effective widening per edge.
func (p Padding) Edges() (left, right, top, bottom float64) {
	left = p.All + p.Horizontal + p.Left
	right = p.All + p.Horizontal + p.Right
	top = p.All + p.Vertical + p.Top
	bottom = p.All + p.Vertical + p.Bottom
	return
}

// Options controls pagination. The zero value is usable; defaults are
// applied by Paginate.
type Options struct {
	// Template positions the frames on each page. Nil selects a single
	// frame covering the paper inside Margins.
	Template *template.PageTemplate

	// Paper size in mm. Defaults to A4 portrait (210x297).
	PaperWidth  float64
	PaperHeight float64

	// Margins are only used when Template is nil.
	Margins template.Margin

	// Font is a descriptor like "Serif Normal 10" (size in pt). Frames may
	// override it.
	Font string

	// Language is a BCP 47 tag, e.g. "he" or "ar-EG". It is passed to the
	// shaping engine and resolves the document base direction when
	// Direction is DirAuto.
	Language string

	// Direction forces the document base direction. DirAuto resolves from
	// Language.
	Direction template.Direction

	// LineSpacing is extra leading in mm added to every line height.
	LineSpacing float64

	// BaselineShift moves baselines up by the given amount in mm. The
	// bounding boxes move with them.
	BaselineShift float64

	// Padding widens the reported line geometry.
	Padding Padding

	// ParallelTexts maps frame indexes to independent text sources. Any
	// entry, or any frame with inline text, switches pagination to
	// parallel mode.
	ParallelTexts map[int]string

	// Logger receives pagination warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PaperWidth <= 0 {
		o.PaperWidth = 210
	}
	if o.PaperHeight <= 0 {
		o.PaperHeight = 297
	}
	if o.Margins == (template.Margin{}) {
		o.Margins = template.Margin{Top: 25, Bottom: 30, Left: 20, Right: 20}
	}
	if o.Font == "" {
		o.Font = "Serif Normal 10"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
