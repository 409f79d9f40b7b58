package template

import (
	"errors"
	"testing"
)

func TestParseDSLTwoColumns(t *testing.T) {
	input := `
frames {
    // Hebrew right column declared first
    frame { x: 110mm y: 25mm width: 80mm height: 247mm align: justify lang: "he" }
    frame { x: 20mm  y: 25mm width: 80mm height: 247mm dir: L font: "Serif Normal 10" }
}`
	tpl, err := ParseDSL(input)
	if err != nil {
		t.Fatalf("ParseDSL: %v", err)
	}
	if len(tpl.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(tpl.Frames))
	}
	if f := tpl.Frames[0]; f.X != 110 || f.Language != "he" || f.Alignment != AlignJustify {
		t.Fatalf("frame 0 = %+v", f)
	}
	if f := tpl.Frames[1]; f.BaseDir != DirLTR || f.Font != "Serif Normal 10" {
		t.Fatalf("frame 1 = %+v", f)
	}
}

func TestParseDSLUnits(t *testing.T) {
	tpl, err := ParseDSL(`frames { frame { x: 1cm y: 72pt width: 1in height: 100 } }`)
	if err != nil {
		t.Fatalf("ParseDSL: %v", err)
	}
	f := tpl.Frames[0]
	if !almostEqual(f.X, 10) || !almostEqual(f.Y, 25.4) || !almostEqual(f.Width, 25.4) || !almostEqual(f.Height, 100) {
		t.Fatalf("frame = %+v", f)
	}
}

func TestParseDSLMissingRequired(t *testing.T) {
	_, err := ParseDSL(`frames { frame { x: 10 y: 10 width: 50 } }`)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field != "height" {
		t.Fatalf("field = %q, want height", verr.Field)
	}
}

func TestParseDSLUnknownField(t *testing.T) {
	_, err := ParseDSL(`frames { frame { x: 10 y: 10 width: 50 height: 50 color: red } }`)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field != "color" {
		t.Fatalf("field = %q, want color", verr.Field)
	}
}

func TestParseDSLSyntaxError(t *testing.T) {
	if _, err := ParseDSL(`frames { frame { x 10 } }`); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseDSLEmbeddedText(t *testing.T) {
	tpl, err := ParseDSL(`frames { frame { x: 0 y: 0 width: 50 height: 50 text: "inline content" } }`)
	if err != nil {
		t.Fatalf("ParseDSL: %v", err)
	}
	if !tpl.Parallel() {
		t.Fatal("embedded text should switch template to parallel mode")
	}
	if tpl.Frames[0].Text != "inline content" {
		t.Fatalf("text = %q", tpl.Frames[0].Text)
	}
}
