package template

import (
	"errors"
	"testing"
)

func TestNewFillsAlignmentDefault(t *testing.T) {
	tpl, err := New([]Frame{{X: 10, Y: 10, Width: 50, Height: 100}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tpl.Frames[0].Alignment; got != AlignJustify {
		t.Fatalf("default alignment = %q, want %q", got, AlignJustify)
	}
}

func TestNewRejectsBadFrames(t *testing.T) {
	cases := []struct {
		name  string
		frame Frame
		field string
	}{
		{"zero width", Frame{X: 0, Y: 0, Width: 0, Height: 10}, "width"},
		{"negative height", Frame{X: 0, Y: 0, Width: 10, Height: -1}, "height"},
		{"negative x", Frame{X: -1, Y: 0, Width: 10, Height: 10}, "x"},
		{"bad alignment", Frame{X: 0, Y: 0, Width: 10, Height: 10, Alignment: "middle"}, "alignment"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]Frame{tc.frame})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestFlowOrderReversal(t *testing.T) {
	tpl := &PageTemplate{Frames: []Frame{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 20, Y: 0, Width: 10, Height: 10},
		{X: 40, Y: 0, Width: 10, Height: 10},
	}}

	ltr := tpl.FlowOrder(DirLTR)
	for i, v := range ltr {
		if v != i {
			t.Fatalf("LTR order = %v, want identity", ltr)
		}
	}

	rtl := tpl.FlowOrder(DirRTL)
	want := []int{2, 1, 0}
	for i, v := range rtl {
		if v != want[i] {
			t.Fatalf("RTL order = %v, want %v", rtl, want)
		}
	}

	// Reversal must not touch geometry.
	if tpl.Frames[0].X != 0 || tpl.Frames[2].X != 40 {
		t.Fatalf("frame geometry mutated by FlowOrder")
	}
}

func TestDirectionForLanguage(t *testing.T) {
	cases := []struct {
		tag  string
		want Direction
	}{
		{"he", DirRTL},
		{"he-IL", DirRTL},
		{"ar-EG", DirRTL},
		{"yi", DirRTL},
		{"en", DirLTR},
		{"de-DE", DirLTR},
		{"", DirAuto},
		{"not a tag", DirAuto},
	}
	for _, tc := range cases {
		if got := DirectionForLanguage(tc.tag); got != tc.want {
			t.Errorf("DirectionForLanguage(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestFrameDirectionResolution(t *testing.T) {
	// Explicit base_dir wins over language.
	f := Frame{Language: "he", BaseDir: DirLTR}
	if got := f.Direction(DirRTL); got != DirLTR {
		t.Fatalf("explicit BaseDir: got %v, want %v", got, DirLTR)
	}

	// Language tag wins over the document default.
	f = Frame{Language: "ar"}
	if got := f.Direction(DirLTR); got != DirRTL {
		t.Fatalf("language direction: got %v, want %v", got, DirRTL)
	}

	// Nothing set: document default applies.
	f = Frame{}
	if got := f.Direction(DirRTL); got != DirRTL {
		t.Fatalf("document default: got %v, want %v", got, DirRTL)
	}
}

func TestDefaultTemplate(t *testing.T) {
	tpl := Default(210, 297, Margin{Top: 25, Bottom: 30, Left: 20, Right: 20})
	if len(tpl.Frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(tpl.Frames))
	}
	f := tpl.Frames[0]
	if f.X != 20 || f.Y != 25 {
		t.Fatalf("origin = (%g, %g), want (20, 25)", f.X, f.Y)
	}
	if f.Width != 170 || f.Height != 242 {
		t.Fatalf("size = %gx%g, want 170x242", f.Width, f.Height)
	}
}

func TestParallel(t *testing.T) {
	tpl := &PageTemplate{Frames: []Frame{{Width: 10, Height: 10}}}
	if tpl.Parallel() {
		t.Fatal("template without embedded text reported parallel")
	}
	tpl.Frames[0].Text = "inline"
	if !tpl.Parallel() {
		t.Fatal("template with embedded text not reported parallel")
	}
}
