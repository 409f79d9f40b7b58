package canvasrenderer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ocroft/folio/flow"
	"github.com/ocroft/folio/template"
)

func TestTokenize(t *testing.T) {
	toks := tokenize([]byte("ab  cd\nef"))
	want := []token{
		{0, 2, tokWord},
		{2, 4, tokSpace},
		{4, 6, tokWord},
		{6, 7, tokNewline},
		{7, 9, tokWord},
	}
	if len(toks) != len(want) {
		t.Fatalf("tokens = %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, toks[i], want[i])
		}
	}
}

func TestDominantRTL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"hello world", false},
		{"שלום עולם", true},
		{"שלום hello עולם", true},
		{"שלום hello world", false},
		{"123 456", false},
		{"", false},
		{"مرحبا", true},
	}
	for _, tc := range cases {
		if got := dominantRTL(tc.in); got != tc.want {
			t.Errorf("dominantRTL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// shapingRenderer returns a renderer whose fonts resolve, or skips the test
// on systems without any of the known font families.
func shapingRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := New()
	if _, err := r.fontFace("Serif Normal 10"); err != nil {
		t.Skipf("no usable system font: %v", err)
	}
	return r
}

func TestShapeLinesTileBuffer(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte("the quick brown fox jumps over the lazy dog and keeps running until the line must break somewhere\nshort tail")
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width:     60,
		Alignment: template.AlignLeft,
		Font:      "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("lines = %d, want several", len(lines))
	}

	next := 0
	for i, ln := range lines {
		if ln.Start != next {
			t.Fatalf("line %d starts at %d, want %d", i, ln.Start, next)
		}
		if ln.Length <= 0 {
			t.Fatalf("line %d has non-positive length", i)
		}
		next = ln.Start + ln.Length
	}
	if next != len(buf) {
		t.Fatalf("lines cover %d bytes, want %d", next, len(buf))
	}
}

func TestShapeLinesOffsetsOnCharacterBoundaries(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte("שלום עולם זה טקסט ארוך יותר כדי לבדוק שבירת שורות בעברית")
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width: 30,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	for i, ln := range lines {
		if !utf8.RuneStart(buf[ln.Start]) && ln.Start != len(buf) {
			t.Fatalf("line %d starts inside a character at byte %d", i, ln.Start)
		}
	}
}

func TestShapeLinesRespectWidth(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte("alpha beta gamma delta epsilon zeta eta theta iota kappa")
	width := 40.0
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width: width,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	for i, ln := range lines {
		if ln.InkW > width+0.01 {
			text := string(buf[ln.Start : ln.Start+ln.Length])
			t.Fatalf("line %d (%q) is %gmm wide, limit %gmm", i, text, ln.InkW, width)
		}
	}
}

func TestShapeLinesBreaksOverlongWord(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte(strings.Repeat("m", 60))
	width := 20.0
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width: width,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("lines = %d, want several character-broken pieces", len(lines))
	}
	next := 0
	for i, ln := range lines {
		if ln.Start != next {
			t.Fatalf("line %d starts at %d, want %d", i, ln.Start, next)
		}
		if ln.InkW > width+0.01 {
			t.Fatalf("line %d is %gmm wide, limit %gmm", i, ln.InkW, width)
		}
		next = ln.Start + ln.Length
	}
	if next != len(buf) {
		t.Fatalf("lines cover %d bytes, want %d", next, len(buf))
	}
}

func TestShapeLinesBreaksOverlongWordOnCharacterBoundaries(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte(strings.Repeat("ש", 40))
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width: 15,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("lines = %d, want several character-broken pieces", len(lines))
	}
	for i, ln := range lines {
		if !utf8.RuneStart(buf[ln.Start]) {
			t.Fatalf("line %d starts inside a character at byte %d", i, ln.Start)
		}
		if ln.Length%2 != 0 {
			t.Fatalf("line %d covers %d bytes, not whole two-byte characters", i, ln.Length)
		}
	}
}

func TestShapeLinesBrokenWordTailJoinsNextWord(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte(strings.Repeat("m", 30) + " end")
	lines, err := r.ShapeLines(buf, flow.ShapeRequest{
		Width: 25,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	last := lines[len(lines)-1]
	text := string(buf[last.Start : last.Start+last.Length])
	if !strings.HasSuffix(text, "end") {
		t.Fatalf("last line = %q, want the trailing word attached", text)
	}
}

func TestShapeLinesMetrics(t *testing.T) {
	r := shapingRenderer(t)
	lines, err := r.ShapeLines([]byte("metrics"), flow.ShapeRequest{
		Width: 100,
		Font:  "Serif Normal 10",
	})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	ln := lines[0]
	if ln.Height <= 0 || ln.Ascent <= 0 || ln.InkH <= 0 {
		t.Fatalf("metrics = %+v", ln)
	}
	if ln.InkY != -ln.Ascent {
		t.Fatalf("InkY = %g, want %g", ln.InkY, -ln.Ascent)
	}
	if ln.InkW <= 0 {
		t.Fatalf("InkW = %g, want positive", ln.InkW)
	}
}

func TestShapeLinesAlignment(t *testing.T) {
	r := shapingRenderer(t)
	buf := []byte("centered")
	width := 100.0

	left, err := r.ShapeLines(buf, flow.ShapeRequest{Width: width, Alignment: template.AlignLeft, Font: "Serif Normal 10"})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	center, err := r.ShapeLines(buf, flow.ShapeRequest{Width: width, Alignment: template.AlignCenter, Font: "Serif Normal 10"})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	right, err := r.ShapeLines(buf, flow.ShapeRequest{Width: width, Alignment: template.AlignRight, Font: "Serif Normal 10"})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}

	if left[0].InkX != 0 {
		t.Fatalf("left InkX = %g, want 0", left[0].InkX)
	}
	wantCenter := (width - center[0].InkW) / 2
	if diff := center[0].InkX - wantCenter; diff > 0.01 || diff < -0.01 {
		t.Fatalf("center InkX = %g, want %g", center[0].InkX, wantCenter)
	}
	wantRight := width - right[0].InkW
	if diff := right[0].InkX - wantRight; diff > 0.01 || diff < -0.01 {
		t.Fatalf("right InkX = %g, want %g", right[0].InkX, wantRight)
	}
}

func TestShapeLinesExtraSpacing(t *testing.T) {
	r := shapingRenderer(t)
	base, err := r.ShapeLines([]byte("spacing"), flow.ShapeRequest{Width: 100, Font: "Serif Normal 10"})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	spaced, err := r.ShapeLines([]byte("spacing"), flow.ShapeRequest{Width: 100, Font: "Serif Normal 10", LineSpacing: 3})
	if err != nil {
		t.Fatalf("ShapeLines: %v", err)
	}
	if got := spaced[0].Height - base[0].Height; got < 2.99 || got > 3.01 {
		t.Fatalf("extra height = %g, want 3", got)
	}
}
