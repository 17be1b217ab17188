// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	binTesseract = "tesseract"
	binPdftoppm  = "pdftoppm"

	rasterDPI     = 300
	rasterDPIFast = 150
)

// TesseractEngine runs local OCR: the PDF is rasterized to one PNG per
// page with pdftoppm, then each page goes through tesseract concurrently.
type TesseractEngine struct {
	exec          executor
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs the local tesseract engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{
		exec:          defaultExec,
		clientFactory: gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Available() bool {
	if _, err := e.exec.LookPath(binTesseract); err != nil {
		return false
	}
	_, err := e.exec.LookPath(binPdftoppm)
	return err == nil
}

func (e *TesseractEngine) Describe() types.EngineInfo {
	return types.EngineInfo{
		Name:        "tesseract",
		Kind:        types.EngineLocal,
		Description: "local tesseract over pdftoppm page rasters",
	}
}

// Process rasterizes the PDF and OCRs every page concurrently. Pages fail
// independently; the outcome joins the pages that succeeded, and the
// confidence is the mean page confidence scaled by the success fraction.
func (e *TesseractEngine) Process(ctx context.Context, pdfPath string, opts Options) (types.OCROutcome, error) {
	workDir, err := os.MkdirTemp("", "docharvest-tess-*")
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("creating work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	pages, err := e.rasterize(ctx, pdfPath, workDir, opts)
	if err != nil {
		return types.OCROutcome{}, err
	}
	if len(pages) == 0 {
		return types.OCROutcome{}, fmt.Errorf("pdftoppm produced no pages")
	}

	type pageResult struct {
		text string
		conf float64
		err  error
	}
	results := make([]pageResult, len(pages))

	var wg sync.WaitGroup
	for i, pagePath := range pages {
		wg.Add(1)
		go func(i int, pagePath string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i] = pageResult{err: err}
				return
			}
			text, conf, err := e.recognizePage(pagePath, opts.Languages)
			results[i] = pageResult{text: text, conf: conf, err: err}
		}(i, pagePath)
	}
	wg.Wait()

	var texts []string
	var confSum float64
	var succeeded int
	var lastErr error
	for _, res := range results {
		if res.err != nil {
			lastErr = res.err
			continue
		}
		succeeded++
		confSum += res.conf
		if res.text != "" {
			texts = append(texts, res.text)
		}
	}
	if succeeded == 0 {
		return types.OCROutcome{}, fmt.Errorf("all %d pages failed: %w", len(pages), lastErr)
	}

	return types.OCROutcome{
		Text:       strings.Join(texts, "\n\n"),
		Confidence: (confSum / float64(succeeded)) * (float64(succeeded) / float64(len(pages))),
		Pages:      len(pages),
		Language:   firstLanguage(opts.Languages),
	}, nil
}

// rasterize converts the PDF to per-page PNGs and returns their paths in
// page order.
func (e *TesseractEngine) rasterize(ctx context.Context, pdfPath, workDir string, opts Options) ([]string, error) {
	dpi := rasterDPI
	if opts.FastMode {
		dpi = rasterDPIFast
	}
	prefix := filepath.Join(workDir, "page")
	args := []string{"-png", "-r", strconv.Itoa(dpi)}
	if opts.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(opts.MaxPages))
	}
	args = append(args, pdfPath, prefix)

	if err := e.exec.Run(ctx, binPdftoppm, args...); err != nil {
		return nil, fmt.Errorf("rasterizing PDF: %w", err)
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing page images: %w", err)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(pages)
	return pages, nil
}

// recognizePage OCRs one page image with a fresh client. Confidence is the
// mean word confidence reported by tesseract, in [0,1].
func (e *TesseractEngine) recognizePage(pagePath string, languages []string) (string, float64, error) {
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(pagePath); err != nil {
		return "", 0, fmt.Errorf("set image: %w", err)
	}
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return "", 0, fmt.Errorf("set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", 0, fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), wordConfidence(c), nil
}

// wordConfidence averages per-word confidences. Zero when tesseract
// reports no words.
func wordConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
