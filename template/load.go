package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Load reads a page template from path. Files ending in .json use the JSON
// schema ({"frames": [...]}); anything else is parsed as the frame DSL.
func Load(path string) (*PageTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseDSL(string(data))
}

// frameDoc mirrors the JSON template schema. Required numeric fields are
// pointers so that absence is distinguishable from zero.
type frameDoc struct {
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Alignment string   `json:"alignment"`
	Language  string   `json:"language"`
	BaseDir   string   `json:"base_dir"`
	Font      string   `json:"font"`
	Text      string   `json:"text"`
}

type templateDoc struct {
	Frames []frameDoc `json:"frames"`
}

// ParseJSON decodes and validates a JSON template document.
func ParseJSON(data []byte) (*PageTemplate, error) {
	var doc templateDoc
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if len(doc.Frames) == 0 {
		return nil, fmt.Errorf("template: document has no frames")
	}
	frames := make([]Frame, 0, len(doc.Frames))
	for i, fd := range doc.Frames {
		for _, req := range []struct {
			name  string
			value *float64
		}{{"x", fd.X}, {"y", fd.Y}, {"width", fd.Width}, {"height", fd.Height}} {
			if req.value == nil {
				return nil, &ValidationError{Frame: i, Field: req.name, Reason: "missing"}
			}
		}
		align, err := ParseAlignment(fd.Alignment)
		if err != nil {
			return nil, &ValidationError{Frame: i, Field: "alignment", Reason: err.Error()}
		}
		dir, err := ParseDirection(fd.BaseDir)
		if err != nil {
			return nil, &ValidationError{Frame: i, Field: "base_dir", Reason: err.Error()}
		}
		frames = append(frames, Frame{
			X: *fd.X, Y: *fd.Y, Width: *fd.Width, Height: *fd.Height,
			Alignment: align,
			Language:  fd.Language,
			BaseDir:   dir,
			Font:      fd.Font,
			Text:      fd.Text,
		})
	}
	return New(frames)
}

// MappingError reports a parallel-text mapping entry whose file could not be
// read, identifying the offending frame and path.
type MappingError struct {
	Frame int
	Path  string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("parallel mapping: frame %d: %s: %v", e.Frame, e.Path, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// LoadMapping reads a parallel text mapping: a JSON object from 0-based
// frame index to a text file path, resolved relative to the mapping
// document's own directory unless absolute. The returned map holds the file
// contents keyed by frame index.
func LoadMapping(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parallel mapping: read %s: %w", path, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parallel mapping: %s: %w", path, err)
	}
	base := filepath.Dir(path)

	// Deterministic order so the first error is stable.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	texts := make(map[int]string, len(raw))
	for _, k := range keys {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("parallel mapping: %s: invalid frame index %q", path, k)
		}
		p := raw[k]
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, &MappingError{Frame: idx, Path: p, Err: err}
		}
		texts[idx] = string(content)
	}
	return texts, nil
}
