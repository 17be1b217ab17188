// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docharvest/pkg/types"
)

// ocrspaceAPIBase is the OCR.space parse endpoint. Variable so tests can
// substitute a local server.
var ocrspaceAPIBase = "https://api.ocr.space/parse/image"

// OCRSpaceEngine calls the hosted OCR.space API with the PDF uploaded as
// a multipart form.
type OCRSpaceEngine struct {
	Client *http.Client
	APIKey string
}

func (e *OCRSpaceEngine) Name() string { return "ocrspace" }

func (e *OCRSpaceEngine) Available() bool { return e.APIKey != "" }

func (e *OCRSpaceEngine) Describe() types.EngineInfo {
	return types.EngineInfo{
		Name:        "ocrspace",
		Kind:        types.EngineAPI,
		Description: "OCR.space hosted API",
		RequiresKey: "ocrspace-api-key",
	}
}

type ocrspaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func (e *OCRSpaceEngine) Process(ctx context.Context, pdfPath string, opts Options) (types.OCROutcome, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return types.OCROutcome{}, fmt.Errorf("reading PDF: %w", err)
	}

	lang := firstLanguage(opts.Languages)
	if lang == "" {
		lang = "eng"
	}
	fields := map[string]string{
		"language":          lang,
		"isOverlayRequired": "false",
		"scale":             "true",
		"OCREngine":         "2",
	}
	if opts.FastMode {
		fields["OCREngine"] = "1"
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return types.OCROutcome{}, fmt.Errorf("building form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return types.OCROutcome{}, fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ocrspaceAPIBase, &body)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("apikey", e.APIKey)

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.OCROutcome{}, fmt.Errorf("HTTP %d from OCR.space", resp.StatusCode)
	}

	var parsed ocrspaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return types.OCROutcome{}, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return types.OCROutcome{}, fmt.Errorf("OCR.space processing error: %s", string(parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return types.OCROutcome{}, fmt.Errorf("OCR.space returned no results")
	}

	var texts []string
	var ok int
	for _, r := range parsed.ParsedResults {
		if r.FileParseExitCode != 1 {
			continue
		}
		ok++
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			texts = append(texts, t)
		}
	}

	return types.OCROutcome{
		Text:       strings.Join(texts, "\n\n"),
		Confidence: float64(ok) / float64(len(parsed.ParsedResults)),
		Pages:      len(parsed.ParsedResults),
		Language:   lang,
	}, nil
}
