package renderer

import (
	"image"

	"github.com/ocroft/folio/flow"
)

// Renderer turns one paginated page into final output.
// RenderPage returns the page as PDF bytes; RasterizePage renders it to an
// in-memory image at the given resolution.
type Renderer interface {
	RenderPage(doc *flow.Document, page int) ([]byte, error)
	RasterizePage(doc *flow.Document, page int, dpi float64) (image.Image, error)
}
