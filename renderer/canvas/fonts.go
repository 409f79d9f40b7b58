package canvasrenderer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
)

// fontDescriptor is the parsed form of a string like "Serif Normal 10":
// family words, then style words, then the size in pt.
type fontDescriptor struct {
	family string
	style  canvas.FontStyle
	sizePt float64
}

var styleWords = map[string]bool{
	"normal": true, "regular": true, "italic": true, "oblique": true,
	"bold": true, "semibold": true, "demibold": true, "medium": true,
	"light": true, "black": true, "extrabold": true,
}

// parseFontDescriptor splits a descriptor into family, style and size. The
// size is the trailing numeric field (default 10pt); style words are taken
// from the end of the remaining fields; whatever is left is the family name,
// defaulting to "serif".
func parseFontDescriptor(desc string) fontDescriptor {
	fd := fontDescriptor{family: "serif", style: canvas.FontRegular, sizePt: 10}
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return fd
	}

	if size, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil && size > 0 {
		fd.sizePt = size
		fields = fields[:len(fields)-1]
	}

	var styleFields []string
	for len(fields) > 0 && styleWords[strings.ToLower(fields[len(fields)-1])] {
		styleFields = append([]string{fields[len(fields)-1]}, styleFields...)
		fields = fields[:len(fields)-1]
	}
	fd.style = parseFontStyle(strings.Join(styleFields, " "))

	if len(fields) > 0 {
		fd.family = strings.Join(fields, " ")
	}
	return fd
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// System font candidates tried in order for the generic family names.
var genericFamilies = map[string][]string{
	"serif":     {"DejaVu Serif", "Liberation Serif", "FreeSerif", "Times New Roman"},
	"sans":      {"DejaVu Sans", "Liberation Sans", "FreeSans", "Arial"},
	"monospace": {"DejaVu Sans Mono", "Liberation Mono", "FreeMono", "Courier New"},
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// ensureFontFamily loads and caches the font family for a descriptor. Font
// resolution order: an explicit file path registered via Options.Fonts, then
// the named system font, then the generic serif candidates.
func (r *Renderer) ensureFontFamily(fd fontDescriptor) (*canvas.FontFamily, error) {
	key := fmt.Sprintf("%s|%d", fd.family, fd.style)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, nil
	}

	family := canvas.NewFontFamily(fd.family)
	if err := r.loadFontIntoFamily(family, fd); err != nil {
		return nil, err
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: fd.style}
	return family, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, fd fontDescriptor) error {
	if path, ok := r.fontPaths[fd.family]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading font %s: %w", path, err)
		}
		return family.LoadFont(data, 0, fd.style)
	}

	candidates := genericFamilies[strings.ToLower(fd.family)]
	if candidates == nil {
		candidates = append([]string{fd.family}, genericFamilies["serif"]...)
	}
	var lastErr error
	for _, name := range candidates {
		if err := family.LoadSystemFont(name, fd.style); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no usable font for %q: %w", fd.family, lastErr)
}

// fontFace returns a black face for the descriptor. The size is passed in
// pt; all metrics and widths produced by the face are in mm.
func (r *Renderer) fontFace(desc string) (*canvas.FontFace, error) {
	fd := parseFontDescriptor(desc)
	family, err := r.ensureFontFamily(fd)
	if err != nil {
		return nil, err
	}
	return family.Face(fd.sizePt, canvas.Black, fd.style, canvas.FontNormal), nil
}
