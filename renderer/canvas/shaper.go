package canvasrenderer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"

	"github.com/ocroft/folio/flow"
	"github.com/ocroft/folio/template"
)

// token is a run of non-space bytes, a run of spaces, or a single newline.
type token struct {
	start int
	end   int
	kind  tokenKind
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokNewline
)

func tokenize(buf []byte) []token {
	var tokens []token
	i := 0
	for i < len(buf) {
		c := buf[i]
		switch {
		case c == '\n':
			tokens = append(tokens, token{i, i + 1, tokNewline})
			i++
		case c == ' ' || c == '\t' || c == '\r':
			j := i + 1
			for j < len(buf) && (buf[j] == ' ' || buf[j] == '\t' || buf[j] == '\r') {
				j++
			}
			tokens = append(tokens, token{i, j, tokSpace})
			i = j
		default:
			j := i + 1
			for j < len(buf) && buf[j] != ' ' && buf[j] != '\t' && buf[j] != '\r' && buf[j] != '\n' {
				j++
			}
			tokens = append(tokens, token{i, j, tokWord})
			i = j
		}
	}
	return tokens
}

// ShapeLines implements flow.Shaper with greedy word wrapping. The returned
// lines tile the buffer exactly: each line runs from its start offset to the
// next line's start, so every byte, including inter-line whitespace, belongs
// to exactly one line. A word wider than the wrap width on its own is broken
// at character boundaries. Line boundaries always fall on character
// boundaries, which keeps every reported offset decodable.
func (r *Renderer) ShapeLines(buf []byte, req flow.ShapeRequest) ([]flow.ShapedLine, error) {
	face, err := r.fontFace(req.Font)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	lineH := m.LineHeight + req.LineSpacing
	ascent := m.Ascent
	inkH := m.Ascent + m.Descent

	type rawLine struct {
		start, end int
		wordStart  int // first word byte, -1 when the line is blank
		wordEnd    int // end of the last word
	}
	var raws []rawLine

	lineStart := 0
	wordStart, wordEnd := -1, -1
	emit := func(end int) {
		raws = append(raws, rawLine{lineStart, end, wordStart, wordEnd})
		lineStart = end
		wordStart, wordEnd = -1, -1
	}

	// breakLongWord splits a word wider than the wrap width at character
	// boundaries. Every full chunk becomes its own line; the trailing chunk
	// stays the current word so following tokens may join it. Each chunk
	// keeps at least one character, so progress is guaranteed even when a
	// single glyph exceeds the width.
	breakLongWord := func(start, end int) {
		chunkStart := start
		pos := start
		for pos < end {
			_, sz := utf8.DecodeRune(buf[pos:])
			next := pos + sz
			if pos > chunkStart && face.TextWidth(string(buf[chunkStart:next])) > req.Width {
				wordStart, wordEnd = chunkStart, pos
				emit(pos)
				chunkStart = pos
			}
			pos = next
		}
		wordStart, wordEnd = chunkStart, end
	}

	// startWord begins a fresh line with the word, character-breaking it
	// when it alone cannot fit the wrap width.
	startWord := func(start, end int) {
		if req.Width > 0 && face.TextWidth(string(buf[start:end])) > req.Width {
			breakLongWord(start, end)
			return
		}
		wordStart, wordEnd = start, end
	}

	for _, tok := range tokenize(buf) {
		switch tok.kind {
		case tokNewline:
			emit(tok.end)
		case tokSpace:
			// attached to the current line; trimmed before measuring
		case tokWord:
			if wordStart < 0 {
				startWord(tok.start, tok.end)
				continue
			}
			candidate := strings.TrimSpace(string(buf[wordStart:tok.end]))
			if req.Width > 0 && face.TextWidth(candidate) > req.Width {
				emit(tok.start)
				startWord(tok.start, tok.end)
				continue
			}
			wordEnd = tok.end
		}
	}
	if lineStart < len(buf) {
		emit(len(buf))
	}

	lines := make([]flow.ShapedLine, 0, len(raws))
	for _, rl := range raws {
		var display string
		if rl.wordStart >= 0 {
			display = string(buf[rl.wordStart:rl.wordEnd])
		}
		w := 0.0
		if display != "" {
			w = face.TextWidth(display)
		}

		inkX := 0.0
		switch req.Alignment {
		case template.AlignCenter:
			inkX = (req.Width - w) / 2
		case template.AlignRight:
			inkX = req.Width - w
		}
		if inkX < 0 {
			inkX = 0
		}

		rtl := req.Direction == template.DirRTL
		if req.Direction == template.DirAuto {
			rtl = dominantRTL(display)
		}

		lines = append(lines, flow.ShapedLine{
			Start:    rl.start,
			Length:   rl.end - rl.start,
			InkX:     inkX,
			InkY:     -ascent,
			InkW:     w,
			InkH:     inkH,
			LogicalX: inkX,
			LogicalW: w,
			Height:   lineH,
			Ascent:   ascent,
			RTL:      rtl,
		})
	}
	return lines, nil
}

// dominantRTL counts strong directional characters and reports whether
// right-to-left ones dominate. Neutral characters (digits, punctuation,
// whitespace) do not vote.
func dominantRTL(s string) bool {
	ltr, rtl := 0, 0
	for i := 0; i < len(s); {
		props, sz := bidi.LookupString(s[i:])
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
		if sz == 0 {
			break
		}
		i += sz
	}
	return rtl > ltr
}
