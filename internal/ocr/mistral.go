// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/docharvest/pkg/types"
)

// mistralAPIBase is the Mistral OCR endpoint. Variable so tests can
// substitute a local server.
var mistralAPIBase = "https://api.mistral.ai/v1/ocr"

const mistralModel = "mistral-ocr-latest"

// mistralConfidence is the nominal confidence assigned to Mistral OCR
// output; the API does not report one.
const mistralConfidence = 0.92

// MistralEngine calls the Mistral hosted OCR API with the PDF embedded as
// a base64 data URL.
type MistralEngine struct {
	Client *http.Client
	APIKey string
}

func (e *MistralEngine) Name() string { return "mistral" }

func (e *MistralEngine) Available() bool { return e.APIKey != "" }

func (e *MistralEngine) Describe() types.EngineInfo {
	return types.EngineInfo{
		Name:        "mistral",
		Kind:        types.EngineAPI,
		Description: "Mistral hosted OCR API",
		RequiresKey: "mistral-api-key",
	}
}

type mistralRequest struct {
	Model    string          `json:"model"`
	Document mistralDocument `json:"document"`
	Pages    []int           `json:"pages,omitempty"`
}

type mistralDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type mistralResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

func (e *MistralEngine) Process(ctx context.Context, pdfPath string, opts Options) (types.OCROutcome, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("reading PDF: %w", err)
	}

	reqBody := mistralRequest{
		Model: mistralModel,
		Document: mistralDocument{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data),
		},
	}
	if opts.FastMode && opts.MaxPages > 0 {
		for i := 0; i < opts.MaxPages; i++ {
			reqBody.Pages = append(reqBody.Pages, i)
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mistralAPIBase, bytes.NewReader(payload))
	if err != nil {
		return types.OCROutcome{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

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
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.OCROutcome{}, fmt.Errorf("HTTP %d from Mistral: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return types.OCROutcome{}, fmt.Errorf("decoding response: %w", err)
	}

	var texts []string
	for _, p := range parsed.Pages {
		if t := strings.TrimSpace(p.Markdown); t != "" {
			texts = append(texts, t)
		}
	}

	return types.OCROutcome{
		Text:       strings.Join(texts, "\n\n"),
		Confidence: mistralConfidence,
		Pages:      len(parsed.Pages),
		Language:   firstLanguage(opts.Languages),
	}, nil
}
