package flow

import (
	"fmt"
	"math"

	"github.com/ocroft/folio/template"
)

// maxCoord bounds every emitted coordinate. Checked on the float values
// before conversion, since a float-to-int conversion past the int range is
// implementation-defined.
const maxCoord = math.MaxInt32

// lineGeometry places one shaped line at vertical offset used inside frame
// and derives its integer bounding box and baseline. Horizontal ink extents
// are mirrored around the frame for right-to-left lines. Integer rounding is
// outward: floor on the top-left, ceil on the bottom-right, so the box never
// clips ink.
func (f *flow) lineGeometry(frame *template.Frame, sl ShapedLine, used float64, text string) (Line, error) {
	asc := sl.Ascent
	if asc <= 0 {
		asc = 0.8 * sl.Height
	}
	baseline := frame.Y + used + asc - f.opts.BaselineShift

	var left, right, drawX float64
	if sl.RTL {
		right = frame.X + frame.Width - sl.InkX
		left = right - sl.InkW
		drawX = frame.X + frame.Width - (sl.LogicalX + sl.LogicalW)
	} else {
		left = frame.X + sl.InkX
		right = left + sl.InkW
		drawX = frame.X + sl.LogicalX
	}
	top := baseline + sl.InkY
	bottom := top + sl.InkH

	padL, padR, padT, padB := f.opts.Padding.Edges()
	left -= padL
	right += padR
	top -= padT
	bottom += padB
	blLeft := left - f.opts.Padding.Baseline
	blRight := right + f.opts.Padding.Baseline

	for _, v := range []float64{left, right, top, bottom, baseline, blLeft, blRight} {
		if math.Abs(v) > maxCoord || math.IsNaN(v) {
			return Line{}, fmt.Errorf("line coordinate %v out of range", v)
		}
	}

	return Line{
		Text:          text,
		Left:          int(math.Floor(left)),
		Top:           int(math.Floor(top)),
		Right:         int(math.Ceil(right)),
		Bottom:        int(math.Ceil(bottom)),
		Baseline:      int(math.Round(baseline)),
		BaselineLeft:  int(math.Floor(blLeft)),
		BaselineRight: int(math.Ceil(blRight)),
		DrawX:         drawX,
		DrawY:         baseline,
	}, nil
}
