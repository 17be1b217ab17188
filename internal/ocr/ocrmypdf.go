// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/docharvest/pkg/types"
)

const binOCRmyPDF = "ocrmypdf"

// ocrmypdfConfidence is the nominal confidence assigned to ocrmypdf
// output; the tool does not report one.
const ocrmypdfConfidence = 0.85

// OCRmyPDFEngine wraps the ocrmypdf command-line tool, reading recognized
// text from its sidecar output.
type OCRmyPDFEngine struct {
	exec executor
}

// NewOCRmyPDFEngine constructs the ocrmypdf engine.
func NewOCRmyPDFEngine() *OCRmyPDFEngine {
	return &OCRmyPDFEngine{exec: defaultExec}
}

func (e *OCRmyPDFEngine) Name() string { return "ocrmypdf" }

func (e *OCRmyPDFEngine) Available() bool {
	_, err := e.exec.LookPath(binOCRmyPDF)
	return err == nil
}

func (e *OCRmyPDFEngine) Describe() types.EngineInfo {
	return types.EngineInfo{
		Name:        "ocrmypdf",
		Kind:        types.EngineLocal,
		Description: "ocrmypdf with sidecar text output",
	}
}

func (e *OCRmyPDFEngine) Process(ctx context.Context, pdfPath string, opts Options) (types.OCROutcome, error) {
	workDir, err := os.MkdirTemp("", "docharvest-omp-*")
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("creating work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	sidecar := filepath.Join(workDir, "text.txt")
	outPDF := filepath.Join(workDir, "out.pdf")

	args := []string{"--force-ocr", "--sidecar", sidecar}
	if len(opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(opts.Languages, "+"))
	}
	if opts.FastMode {
		args = append(args, "--optimize", "0")
	}
	if opts.MaxPages > 0 {
		args = append(args, "--pages", "1-"+strconv.Itoa(opts.MaxPages))
	}
	args = append(args, pdfPath, outPDF)

	if err := e.exec.Run(ctx, binOCRmyPDF, args...); err != nil {
		return types.OCROutcome{}, fmt.Errorf("running ocrmypdf: %w", err)
	}

	data, err := os.ReadFile(sidecar)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("reading sidecar: %w", err)
	}

	return types.OCROutcome{
		Text:       strings.TrimSpace(string(data)),
		Confidence: ocrmypdfConfidence,
		Language:   firstLanguage(opts.Languages),
	}, nil
}
