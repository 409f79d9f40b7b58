package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ocroft/folio/alto"
	"github.com/ocroft/folio/flow"
	"github.com/ocroft/folio/renderer"
	canvasrenderer "github.com/ocroft/folio/renderer/canvas"
	"github.com/ocroft/folio/template"
)

func main() {
	paper := flag.String("paper", "210x297", "paper size WxH in mm")
	margins := flag.String("margins", "25,30,20,20", "margins top,bottom,left,right in mm (single-column layout only)")
	font := flag.String("font", "Serif Normal 10", "font descriptor, size in pt")
	lang := flag.String("language", "", "BCP 47 language tag for shaping and ALTO metadata")
	baseDir := flag.String("base-dir", "", "base text direction, L or R (default: derived from language)")
	templatePath := flag.String("template", "", "page template file (JSON or frames DSL)")
	parallelMap := flag.String("parallel-map", "", "JSON file mapping frame index to text file for parallel rendering")
	lineSpacing := flag.Float64("line-spacing", 0, "extra inter-line spacing in pt")
	baselineShift := flag.Float64("baseline-shift", 0, "move baselines up by this many mm")
	padAll := flag.Float64("padding-all", 0, "bounding box padding on all sides in mm")
	padH := flag.Float64("padding-horizontal", 0, "bounding box padding left and right in mm")
	padV := flag.Float64("padding-vertical", 0, "bounding box padding top and bottom in mm")
	padLeft := flag.Float64("padding-left", 0, "bounding box padding left in mm")
	padRight := flag.Float64("padding-right", 0, "bounding box padding right in mm")
	padTop := flag.Float64("padding-top", 0, "bounding box padding top in mm")
	padBottom := flag.Float64("padding-bottom", 0, "bounding box padding bottom in mm")
	padBaseline := flag.Float64("padding-baseline", 0, "padding on baseline endpoints in mm")
	outputDir := flag.String("out", ".", "output directory for PDF and XML files")
	workers := flag.Int("workers", 1, "number of documents processed concurrently")
	debug := flag.Bool("debug", false, "write pagination debug JSON next to the outputs")
	rasterize := flag.Bool("png", false, "also rasterize each page to PNG with pixel-unit ALTO")
	dpi := flag.Float64("dpi", 300, "resolution for PNG rasterization")
	backgrounds := flag.String("backgrounds", "", "directory of background images blended into PNG output")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	docs := flag.Args()
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: folio [flags] textfile...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	paperW, paperH, err := parsePaper(*paper)
	if err != nil {
		log.Error("invalid paper size", "value", *paper, "err", err)
		os.Exit(1)
	}
	margin, err := parseMargins(*margins)
	if err != nil {
		log.Error("invalid margins", "value", *margins, "err", err)
		os.Exit(1)
	}
	dir, err := template.ParseDirection(*baseDir)
	if err != nil {
		log.Error("invalid base direction", "value", *baseDir, "err", err)
		os.Exit(1)
	}

	opts := flow.Options{
		PaperWidth:    paperW,
		PaperHeight:   paperH,
		Margins:       margin,
		Font:          *font,
		Language:      *lang,
		Direction:     dir,
		LineSpacing:   *lineSpacing * template.PtToMm,
		BaselineShift: *baselineShift,
		Padding: flow.Padding{
			All:        *padAll,
			Horizontal: *padH,
			Vertical:   *padV,
			Left:       *padLeft,
			Right:      *padRight,
			Top:        *padTop,
			Bottom:     *padBottom,
			Baseline:   *padBaseline,
		},
		Logger: log,
	}

	if *templatePath != "" {
		tpl, err := template.Load(*templatePath)
		if err != nil {
			log.Error("loading template", "path", *templatePath, "err", err)
			os.Exit(1)
		}
		opts.Template = tpl
	}
	if *parallelMap != "" {
		texts, err := template.LoadMapping(*parallelMap)
		if err != nil {
			log.Error("loading parallel map", "path", *parallelMap, "err", err)
			os.Exit(1)
		}
		opts.ParallelTexts = texts
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Error("creating output directory", "path", *outputDir, "err", err)
		os.Exit(1)
	}

	job := jobConfig{
		opts:        opts,
		outputDir:   *outputDir,
		debug:       *debug,
		rasterize:   *rasterize,
		dpi:         *dpi,
		backgrounds: *backgrounds,
		renderer:    canvasrenderer.New(),
		log:         log,
	}

	queue := make(chan string)
	var wg sync.WaitGroup
	failed := false
	var failMu sync.Mutex
	for i := 0; i < max(*workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range queue {
				if err := renderDoc(doc, job); err != nil {
					log.Error("rendering failed", "doc", doc, "err", err)
					failMu.Lock()
					failed = true
					failMu.Unlock()
				}
			}
		}()
	}
	for _, doc := range docs {
		queue <- doc
	}
	close(queue)
	wg.Wait()

	if failed {
		os.Exit(1)
	}
}

type jobConfig struct {
	opts        flow.Options
	outputDir   string
	debug       bool
	rasterize   bool
	dpi         float64
	backgrounds string
	renderer    interface {
		renderer.Renderer
		flow.Shaper
	}
	log *slog.Logger
}

// renderDoc paginates one text file and writes per-page PDF and ALTO XML
// outputs, plus optional PNG and pixel-unit XML when rasterizing.
func renderDoc(path string, job jobConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := flow.Paginate(string(data), job.renderer, job.opts)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outBase := filepath.Join(job.outputDir, base)

	if job.debug {
		if err := flow.WriteDebugJSON(doc, outBase+".json"); err != nil {
			return err
		}
	}

	for i := range doc.Pages {
		pdfName := fmt.Sprintf("%s.%d.pdf", base, i)
		pdfBytes, err := job.renderer.RenderPage(doc, i)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(job.outputDir, pdfName), pdfBytes, 0o644); err != nil {
			return err
		}

		if err := writeAlto(doc, i, alto.Options{
			Unit:       "mm",
			FileName:   pdfName,
			PageNumber: i,
		}, fmt.Sprintf("%s.%d.xml", outBase, i)); err != nil {
			return err
		}

		if job.rasterize {
			if err := rasterizePage(doc, i, outBase, base, job); err != nil {
				return err
			}
		}
	}

	job.log.Info("rendered", "doc", path, "pages", len(doc.Pages))
	return nil
}

func rasterizePage(doc *flow.Document, i int, outBase, base string, job jobConfig) error {
	img, err := job.renderer.RasterizePage(doc, i, job.dpi)
	if err != nil {
		return err
	}
	img, err = canvasrenderer.ApplyBackground(img, job.backgrounds)
	if err != nil {
		return err
	}

	pngName := fmt.Sprintf("%s.%d.png", base, i)
	f, err := os.Create(filepath.Join(job.outputDir, pngName))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	bounds := img.Bounds()
	return writeAlto(doc, i, alto.Options{
		Unit:       "pixel",
		Scale:      job.dpi / 25.4,
		FileName:   pngName,
		PageNumber: i,
		PageWidth:  float64(bounds.Dx()),
		PageHeight: float64(bounds.Dy()),
	}, fmt.Sprintf("%s.%d.px.xml", outBase, i))
}

func writeAlto(doc *flow.Document, page int, opts alto.Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	a := alto.Build(doc, &doc.Pages[page], opts)
	if err := a.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parsePaper parses "WxH" in mm.
func parsePaper(s string) (w, h float64, err error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	if w, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, err
	}
	if h, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("paper dimensions must be positive")
	}
	return w, h, nil
}

// parseMargins parses "top,bottom,left,right" in mm.
func parseMargins(s string) (template.Margin, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return template.Margin{}, fmt.Errorf("want top,bottom,left,right, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return template.Margin{}, err
		}
		vals[i] = v
	}
	return template.Margin{Top: vals[0], Bottom: vals[1], Left: vals[2], Right: vals[3]}, nil
}
