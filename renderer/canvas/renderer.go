// Package canvasrenderer shapes and renders paginated documents via
// github.com/tdewolff/canvas. It implements both flow.Shaper, so pagination
// and rendering measure text with the same font faces, and
// renderer.Renderer for the PDF and raster outputs.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ocroft/folio/flow"
	"github.com/ocroft/folio/renderer"
)

// Renderer draws pages via github.com/tdewolff/canvas.
type Renderer struct {
	fontPaths map[string]string

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ flow.Shaper       = (*Renderer)(nil)
)

// Options configures the renderer.
type Options struct {
	// Fonts maps family names to font files, overriding system font lookup
	// for those families.
	Fonts map[string]string
}

// New creates a renderer resolving fonts from the system.
func New() *Renderer { return NewWithOptions(Options{}) }

// NewWithOptions creates a renderer with explicit font files.
func NewWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontPaths:    map[string]string{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, path := range opts.Fonts {
		if name == "" || path == "" {
			continue
		}
		r.fontPaths[name] = path
	}
	return r
}

// RenderPage renders one page of the document into a PDF byte slice.
func (r *Renderer) RenderPage(doc *flow.Document, pageIdx int) ([]byte, error) {
	c, err := r.drawPage(doc, pageIdx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.PaperWidth, doc.PaperHeight, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// RasterizePage renders one page to an image at the given resolution.
func (r *Renderer) RasterizePage(doc *flow.Document, pageIdx int, dpi float64) (image.Image, error) {
	c, err := r.drawPage(doc, pageIdx)
	if err != nil {
		return nil, err
	}
	return rasterizer.Draw(c, canvas.DPMM(dpi/25.4), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawPage(doc *flow.Document, pageIdx int) (*canvas.Canvas, error) {
	if doc == nil || pageIdx < 0 || pageIdx >= len(doc.Pages) {
		return nil, fmt.Errorf("page %d out of range", pageIdx)
	}
	page := doc.Pages[pageIdx]

	c := canvas.New(doc.PaperWidth, doc.PaperHeight)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(doc.PaperWidth, doc.PaperHeight))

	for _, blk := range page.Blocks {
		face, err := r.fontFace(blk.Font)
		if err != nil {
			return nil, err
		}
		for _, ln := range blk.Lines {
			if ln.Text == "" {
				continue
			}
			textLine := canvas.NewTextLine(face, ln.Text, canvas.Left)
			ctx.DrawText(ln.DrawX, ln.DrawY, textLine)
		}
	}
	return c, nil
}

// ApplyBackground multiplies a random background image from dir onto the
// rasterized page, simulating paper texture. The foreground is returned
// unchanged when dir is empty or holds no images.
func ApplyBackground(fg image.Image, dir string) (image.Image, error) {
	if dir == "" {
		return fg, nil
	}
	entries, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil || len(entries) == 0 {
		return fg, err
	}
	path := entries[rand.Intn(len(entries))]
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening background %s: %w", path, err)
	}
	defer f.Close()
	bg, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding background %s: %w", path, err)
	}
	return multiplyBackground(fg, bg), nil
}

// multiplyBackground scales bg to the foreground size and combines the two
// with a per-channel multiply blend.
func multiplyBackground(fg, bg image.Image) image.Image {
	b := fg.Bounds()
	scaled := image.NewRGBA(b)
	xdraw.ApproxBiLinear.Scale(scaled, b, bg, bg.Bounds(), xdraw.Src, nil)

	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fr, fgc, fb, _ := fg.At(x, y).RGBA()
			br, bgc, bb, _ := scaled.At(x, y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(fr * br / 0xffff >> 8),
				G: uint8(fgc * bgc / 0xffff >> 8),
				B: uint8(fb * bb / 0xffff >> 8),
				A: 0xff,
			})
		}
	}
	return out
}
