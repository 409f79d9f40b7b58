package template

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Compact frame DSL, an alternative to the JSON schema:
//
//	frames {
//	    // right column first in source order is fine; flow order is decided later
//	    frame { x: 20mm  y: 25mm  width: 80mm  height: 247mm  align: justify  lang: "he" }
//	    frame { x: 110mm y: 25mm  width: 80mm  height: 247mm  dir: L  font: "Serif Normal 10" }
//	}
//
// Lengths take mm/cm/in/pt suffixes; a bare number is millimeters.

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[:{}]`},
	})

	framesParser = participle.MustBuild[framesDoc](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.Unquote("String"),
	)
)

type framesDoc struct {
	Frames []*frameBlock `parser:"'frames' '{' @@* '}'"`
}

type frameBlock struct {
	Pos     lexer.Position
	Entries []*frameEntry `parser:"'frame' '{' @@* '}'"`
}

type frameEntry struct {
	Key    string  `parser:"@Ident ':'"`
	String *string `parser:"( @String"`
	Value  *string `parser:"| @(Number | Ident) )"`
}

// ParseDSL parses the frame DSL into a validated template.
func ParseDSL(input string) (*PageTemplate, error) {
	doc, err := framesParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if len(doc.Frames) == 0 {
		return nil, fmt.Errorf("template: document has no frames")
	}
	frames := make([]Frame, 0, len(doc.Frames))
	for i, fb := range doc.Frames {
		f, err := frameFromEntries(i, fb.Entries)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return New(frames)
}

func frameFromEntries(idx int, entries []*frameEntry) (Frame, error) {
	var f Frame
	seen := map[string]bool{}
	for _, e := range entries {
		val := ""
		if e.String != nil {
			val = *e.String
		} else if e.Value != nil {
			val = *e.Value
		}
		switch e.Key {
		case "x", "y", "width", "height":
			mm, err := ParseLength(val)
			if err != nil {
				return f, &ValidationError{Frame: idx, Field: e.Key, Reason: err.Error()}
			}
			switch e.Key {
			case "x":
				f.X = mm
			case "y":
				f.Y = mm
			case "width":
				f.Width = mm
			case "height":
				f.Height = mm
			}
			seen[e.Key] = true
		case "align", "alignment":
			a, err := ParseAlignment(val)
			if err != nil {
				return f, &ValidationError{Frame: idx, Field: "alignment", Reason: err.Error()}
			}
			f.Alignment = a
		case "dir", "base_dir":
			d, err := ParseDirection(val)
			if err != nil {
				return f, &ValidationError{Frame: idx, Field: "base_dir", Reason: err.Error()}
			}
			f.BaseDir = d
		case "lang", "language":
			f.Language = val
		case "font":
			f.Font = val
		case "text":
			f.Text = val
		default:
			return f, &ValidationError{Frame: idx, Field: e.Key, Reason: "unknown field"}
		}
	}
	for _, req := range []string{"x", "y", "width", "height"} {
		if !seen[req] {
			return f, &ValidationError{Frame: idx, Field: req, Reason: "missing"}
		}
	}
	return f, nil
}
