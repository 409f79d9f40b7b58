// Package template describes page regions for text flow: a PageTemplate is
// an ordered, non-empty list of rectangular Frames that every page produced
// from it shares. Geometry is expressed in millimeters with the origin at
// the top-left corner of the page.
package template

import (
	"fmt"

	"golang.org/x/text/language"
)

// Alignment of text within a frame.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// ParseAlignment maps a config value to an Alignment. The empty string
// defaults to justify.
func ParseAlignment(v string) (Alignment, error) {
	switch Alignment(v) {
	case "":
		return AlignJustify, nil
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return Alignment(v), nil
	default:
		return "", fmt.Errorf("unknown alignment %q", v)
	}
}

// Direction is a base text direction. DirAuto means "not specified": the
// effective direction is derived from the language tag or the document
// default.
type Direction int

const (
	DirAuto Direction = iota
	DirLTR
	DirRTL
)

func (d Direction) String() string {
	switch d {
	case DirLTR:
		return "ltr"
	case DirRTL:
		return "rtl"
	default:
		return ""
	}
}

// ParseDirection maps the template values "L"/"R" to a Direction.
func ParseDirection(v string) (Direction, error) {
	switch v {
	case "":
		return DirAuto, nil
	case "L":
		return DirLTR, nil
	case "R":
		return DirRTL, nil
	default:
		return DirAuto, fmt.Errorf("unknown base_dir %q (want L or R)", v)
	}
}

// Frame is a rectangular region on a page where text flows. Geometry is
// immutable after loading; a frame is identified by its index in the
// template's frame list.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Alignment Alignment `json:"alignment"`
	// Language is an optional BCP 47 tag ("he", "en", "ar-EG") used for
	// language-specific shaping and direction resolution.
	Language string `json:"language,omitempty"`
	// BaseDir overrides the direction derived from Language.
	BaseDir Direction `json:"base_dir,omitempty"`
	// Font overrides the document font for this frame
	// (family/style/size descriptor, e.g. "Serif Normal 10").
	Font string `json:"font,omitempty"`
	// Text carries embedded literal content; a non-empty value switches the
	// pagination into parallel mode with an independent cursor per frame.
	Text string `json:"text,omitempty"`
}

// Direction resolves the frame's effective base direction: explicit BaseDir
// first, then the frame's language tag, then the supplied document default.
func (f Frame) Direction(docDefault Direction) Direction {
	if f.BaseDir != DirAuto {
		return f.BaseDir
	}
	if d := DirectionForLanguage(f.Language); d != DirAuto {
		return d
	}
	return docDefault
}

// ValidationError reports a malformed frame in a template document.
type ValidationError struct {
	Frame  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template: frame %d: field %q: %s", e.Frame, e.Field, e.Reason)
}

func (f Frame) validate(idx int) error {
	for _, dim := range []struct {
		name  string
		value float64
	}{{"x", f.X}, {"y", f.Y}, {"width", f.Width}, {"height", f.Height}} {
		if dim.name == "width" || dim.name == "height" {
			if dim.value <= 0 {
				return &ValidationError{Frame: idx, Field: dim.name, Reason: fmt.Sprintf("must be positive, got %g", dim.value)}
			}
		} else if dim.value < 0 {
			return &ValidationError{Frame: idx, Field: dim.name, Reason: fmt.Sprintf("must not be negative, got %g", dim.value)}
		}
	}
	if _, err := ParseAlignment(string(f.Alignment)); err != nil {
		return &ValidationError{Frame: idx, Field: "alignment", Reason: err.Error()}
	}
	return nil
}

// PageTemplate is an ordered, non-empty sequence of frames. The same
// template instance may be shared across pages and across documents; it is
// never mutated by pagination.
type PageTemplate struct {
	Frames []Frame
}

// New validates the frames and fills alignment defaults.
func New(frames []Frame) (*PageTemplate, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("template: needs at least one frame")
	}
	out := make([]Frame, len(frames))
	copy(out, frames)
	for i := range out {
		if out[i].Alignment == "" {
			out[i].Alignment = AlignJustify
		}
		if err := out[i].validate(i); err != nil {
			return nil, err
		}
	}
	return &PageTemplate{Frames: out}, nil
}

// Margin in millimeters.
type Margin struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Default builds a single-frame template covering the printable area of a
// pageWidth×pageHeight page inside the given margins.
func Default(pageWidth, pageHeight float64, m Margin) *PageTemplate {
	return &PageTemplate{Frames: []Frame{{
		X:         m.Left,
		Y:         m.Top,
		Width:     pageWidth - m.Left - m.Right,
		Height:    pageHeight - m.Top - m.Bottom,
		Alignment: AlignJustify,
	}}}
}

// FlowOrder returns the frame indices in fill order: declared order for
// left-to-right documents, reversed for right-to-left (so with two columns
// the right column fills first). Reversal never touches frame geometry.
func (t *PageTemplate) FlowOrder(dir Direction) []int {
	order := make([]int, len(t.Frames))
	for i := range order {
		order[i] = i
	}
	if dir == DirRTL {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

// Parallel reports whether any frame embeds its own text, which switches
// pagination into parallel mode.
func (t *PageTemplate) Parallel() bool {
	for _, f := range t.Frames {
		if f.Text != "" {
			return true
		}
	}
	return false
}

// rtlBases are base languages written right to left. The comparison runs on
// the canonical base of the parsed tag, so "he-IL" and "heb" both match.
var rtlBases = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"yi": true, // Yiddish
	"fa": true, // Persian
	"ur": true, // Urdu
	"ps": true, // Pashto
	"dv": true, // Divehi
	"ug": true, // Uyghur
}

// DirectionForLanguage resolves a BCP 47 tag to a base direction. Unknown or
// empty tags resolve to DirAuto.
func DirectionForLanguage(tag string) Direction {
	if tag == "" {
		return DirAuto
	}
	t, err := language.Parse(tag)
	if err != nil {
		return DirAuto
	}
	base, conf := t.Base()
	if conf == language.No {
		return DirAuto
	}
	if rtlBases[base.String()] {
		return DirRTL
	}
	return DirLTR
}
