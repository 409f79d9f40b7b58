package flow

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ocroft/folio/template"
)

// Line is one placed line of text. Integer coordinates are in mm, rounded
// outward so the box always contains the ink. DrawX/DrawY keep the exact
// drawing position for the renderer.
type Line struct {
	Text string

	Left   int
	Top    int
	Right  int
	Bottom int

	// Baseline endpoints. BaselineLeft/Right include baseline padding, so
	// they may extend past the bounding box.
	Baseline      int
	BaselineLeft  int
	BaselineRight int

	// Exact drawing origin in mm: the left end of the line at its
	// baseline, regardless of direction.
	DrawX float64
	DrawY float64
}

// TextBlock is the filled region of one frame on one page: the union of its
// line boxes plus the frame index and resolved style.
type TextBlock struct {
	Frame  int
	X      int
	Y      int
	Width  int
	Height int

	Direction template.Direction
	Language  string
	Font      string
	Alignment template.Alignment

	Lines []Line
}

// Page holds the blocks placed on one page, in flow order.
type Page struct {
	Blocks []TextBlock
}

// Document is the result of pagination.
type Document struct {
	Pages []Page

	PaperWidth  float64
	PaperHeight float64
	Language    string
	Direction   template.Direction
	Template    *template.PageTemplate
}

// FrameTooSmallError reports a frame that cannot hold even a single line of
// its text, which would otherwise loop forever producing empty pages.
type FrameTooSmallError struct {
	Frame       int
	FrameHeight float64
	LineHeight  float64
}

func (e *FrameTooSmallError) Error() string {
	return fmt.Sprintf("frame %d (%.2fmm high) cannot fit a %.2fmm line", e.Frame, e.FrameHeight, e.LineHeight)
}

// Paginate flows text into the template's frames across as many pages as
// needed. The shaper breaks text into lines; Paginate only decides how many
// of them fit per frame and where their boxes land.
func Paginate(text string, shaper Shaper, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	tpl := opts.Template
	if tpl == nil {
		tpl = template.Default(opts.PaperWidth, opts.PaperHeight, opts.Margins)
	}

	docDir := opts.Direction
	if docDir == template.DirAuto {
		docDir = template.DirectionForLanguage(opts.Language)
	}

	f := &flow{
		shaper: shaper,
		opts:   opts,
		tpl:    tpl,
		order:  tpl.FlowOrder(docDir),
		docDir: docDir,
		log:    opts.Logger,
	}

	doc := &Document{
		PaperWidth:  opts.PaperWidth,
		PaperHeight: opts.PaperHeight,
		Language:    opts.Language,
		Direction:   docDir,
		Template:    tpl,
	}

	var err error
	if tpl.Parallel() || len(opts.ParallelTexts) > 0 {
		doc.Pages, err = f.parallel(text)
	} else {
		doc.Pages, err = f.sequential(text)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type flow struct {
	shaper Shaper
	opts   Options
	tpl    *template.PageTemplate
	order  []int
	docDir template.Direction
	log    *slog.Logger
}

// sequential threads one text through every frame of every page in flow
// order until it is exhausted.
func (f *flow) sequential(text string) ([]Page, error) {
	cur := NewCursor(text)
	var pages []Page
	for !cur.Exhausted() {
		page := Page{}
		for _, fi := range f.order {
			if cur.Exhausted() {
				break
			}
			block, err := f.fillFrame(fi, cur)
			if err != nil {
				return nil, err
			}
			if block != nil {
				page.Blocks = append(page.Blocks, *block)
			}
		}
		if len(page.Blocks) == 0 {
			// Nothing placed on a fresh page: the remaining text can
			// never be consumed, so stop instead of looping.
			break
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// parallel gives each frame its own text source. A frame's inline text takes
// precedence over the ParallelTexts entry for its index; frames with neither
// are left empty. Pages are produced until every source is exhausted.
func (f *flow) parallel(text string) ([]Page, error) {
	cursors := make(map[int]*Cursor)
	for i, fr := range f.tpl.Frames {
		switch {
		case fr.Text != "":
			cursors[i] = NewCursor(fr.Text)
		default:
			if t, ok := f.opts.ParallelTexts[i]; ok {
				cursors[i] = NewCursor(t)
			}
		}
	}
	for i := range f.opts.ParallelTexts {
		if i < 0 || i >= len(f.tpl.Frames) {
			f.log.Warn("parallel text bound to a frame the template does not have",
				slog.Int("frame", i),
				slog.Int("frames", len(f.tpl.Frames)))
		}
	}
	if len(cursors) == 0 && text != "" {
		return nil, fmt.Errorf("parallel template has no frame text sources")
	}

	exhausted := func() bool {
		for _, c := range cursors {
			if !c.Exhausted() {
				return false
			}
		}
		return true
	}

	var pages []Page
	for !exhausted() {
		page := Page{}
		for _, fi := range f.order {
			cur, ok := cursors[fi]
			if !ok || cur.Exhausted() {
				continue
			}
			block, err := f.fillFrame(fi, cur)
			if err != nil {
				return nil, err
			}
			if block != nil {
				page.Blocks = append(page.Blocks, *block)
			}
		}
		if len(page.Blocks) == 0 {
			break
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// fillFrame shapes the cursor's remaining text at the frame width and places
// lines top to bottom until the next one would overflow the frame height.
// Consumed length is derived from the first unplaced line's byte offset and
// fed back to the cursor in characters. Returns nil when no line was placed.
func (f *flow) fillFrame(fi int, cur *Cursor) (*TextBlock, error) {
	frame := &f.tpl.Frames[fi]
	remaining := cur.Remaining()

	if strings.TrimSpace(string(remaining)) == "" {
		cur.AdvanceToEnd()
		return nil, nil
	}

	req := ShapeRequest{
		Width:       frame.Width,
		Alignment:   frame.Alignment,
		Font:        f.opts.Font,
		Language:    f.opts.Language,
		Direction:   frame.Direction(f.docDir),
		LineSpacing: f.opts.LineSpacing,
	}
	if frame.Font != "" {
		req.Font = frame.Font
	}
	if frame.Language != "" {
		req.Language = frame.Language
	}

	shaped, err := f.shaper.ShapeLines(remaining, req)
	if err != nil {
		return nil, fmt.Errorf("shaping frame %d: %w", fi, err)
	}

	var (
		lines     []Line
		used      float64
		consumed  = -1
		truncated bool
		firstH    float64
	)
	for _, sl := range shaped {
		if firstH == 0 {
			firstH = sl.Height
		}
		if used+sl.Height > frame.Height {
			consumed, err = CharOffset(remaining, sl.Start)
			if err != nil {
				return nil, fmt.Errorf("frame %d line at byte %d: %w", fi, sl.Start, err)
			}
			truncated = true
			break
		}
		seg := remaining[sl.Start : sl.Start+sl.Length]
		if strings.TrimSpace(string(seg)) == "" {
			// Blank lines take vertical space and are consumed, but are
			// not recorded as output.
			used += sl.Height
			continue
		}
		ln, err := f.lineGeometry(frame, sl, used, strings.TrimSpace(string(seg)))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", fi, err)
		}
		lines = append(lines, ln)
		used += sl.Height
	}

	if truncated {
		if consumed == 0 && len(lines) == 0 {
			return nil, &FrameTooSmallError{Frame: fi, FrameHeight: frame.Height, LineHeight: firstH}
		}
	} else {
		// Every shaped line fit; the whole buffer is consumed.
		consumed = cur.Len() - cur.Pos()
	}

	if cur.Advance(consumed) {
		f.log.Warn("cursor advance clamped to text end",
			slog.Int("frame", fi),
			slog.Int("consumed", consumed),
			slog.Int("length", cur.Len()))
	}

	if len(lines) == 0 {
		return nil, nil
	}
	return f.blockFor(fi, frame, req, lines), nil
}

// blockFor computes the block bounding box as the integer union of its line
// boxes and records the frame's resolved style.
func (f *flow) blockFor(fi int, frame *template.Frame, req ShapeRequest, lines []Line) *TextBlock {
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := math.MinInt32, math.MinInt32
	for _, ln := range lines {
		if ln.Left < minX {
			minX = ln.Left
		}
		if ln.Top < minY {
			minY = ln.Top
		}
		if ln.Right > maxX {
			maxX = ln.Right
		}
		if ln.Bottom > maxY {
			maxY = ln.Bottom
		}
	}
	return &TextBlock{
		Frame:     fi,
		X:         minX,
		Y:         minY,
		Width:     maxX - minX,
		Height:    maxY - minY,
		Direction: req.Direction,
		Language:  req.Language,
		Font:      req.Font,
		Alignment: frame.Alignment,
		Lines:     lines,
	}
}
