// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/docharvest/internal/ocr"
	"github.com/pdiddy/docharvest/internal/source"
	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "docharvest/0.1"
)

func init() {
	viper.SetDefault("search.max_results", 20)
	viper.SetDefault("search.enable_arxiv", true)
	viper.SetDefault("search.enable_pubmed", true)
	viper.SetDefault("search.enable_web", false)
	viper.SetDefault("acquisition.docs_dir", "documents")
	viper.SetDefault("acquisition.min_pdf_size", 1024)
	viper.SetDefault("acquisition.download_delay", defaultDelay)
	viper.SetDefault("ocr.primary_engine", "auto")
	viper.SetDefault("ocr.enable_fallback", true)
	viper.SetDefault("ocr.attempt_timeout", 120*time.Second)
	viper.SetDefault("ocr.max_pages", 10)
	viper.SetDefault("ocr.languages", []string{"eng"})
	viper.SetDefault("store.store_dir", "documents/store")
	viper.SetDefault("http.timeout", defaultTimeout)
	viper.SetDefault("http.user_agent", defaultUserAgent)
}

// loadConfig assembles the pipeline configuration from viper, with API
// keys falling back to the secrets directory.
func loadConfig() types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig:         httpCfg,
			MaxResults:         viper.GetInt("search.max_results"),
			EnableArxiv:        viper.GetBool("search.enable_arxiv"),
			EnablePubMed:       viper.GetBool("search.enable_pubmed"),
			EnableWeb:          viper.GetBool("search.enable_web"),
			NCBIAPIKey:         secretDefault("ncbi-api-key", viper.GetString("search.ncbi_api_key")),
			InterStrategyDelay: viper.GetDuration("search.inter_strategy_delay"),
		},
		Acquisition: types.AcquisitionConfig{
			HTTPConfig:    httpCfg,
			DocsDir:       viper.GetString("acquisition.docs_dir"),
			MinPDFSize:    viper.GetInt64("acquisition.min_pdf_size"),
			DownloadDelay: viper.GetDuration("acquisition.download_delay"),
		},
		Quality: types.QualityConfig{
			ForceOCR: viper.GetBool("quality.force_ocr"),
			Bypass:   viper.GetBool("quality.bypass"),
		},
		OCR: types.OCRConfig{
			PrimaryEngine:   viper.GetString("ocr.primary_engine"),
			FallbackEngines: viper.GetStringSlice("ocr.fallback_engines"),
			EnableFallback:  viper.GetBool("ocr.enable_fallback"),
			AttemptTimeout:  viper.GetDuration("ocr.attempt_timeout"),
			FastMode:        viper.GetBool("ocr.fast_mode"),
			MaxPages:        viper.GetInt("ocr.max_pages"),
			Languages:       viper.GetStringSlice("ocr.languages"),
			MistralAPIKey:   secretDefault("mistral-api-key", viper.GetString("ocr.mistral_api_key")),
			OCRSpaceAPIKey:  secretDefault("ocrspace-api-key", viper.GetString("ocr.ocrspace_api_key")),
		},
		Store: types.StoreConfig{
			StoreDir: viper.GetString("store.store_dir"),
		},
	}
}

// newHTTPClient builds the shared HTTP client from the configuration.
func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// buildStrategies assembles the enabled search strategies in fixed order.
func buildStrategies(cfg types.SearchConfig, client *http.Client) []source.Strategy {
	var strategies []source.Strategy
	if cfg.EnableArxiv {
		strategies = append(strategies, &source.ArxivStrategy{Client: client})
	}
	if cfg.EnablePubMed {
		strategies = append(strategies, &source.PubMedStrategy{Client: client})
	}
	if cfg.EnableWeb {
		strategies = append(strategies, &source.WebStrategy{Client: client})
	}
	return strategies
}

// buildOCRManager registers every engine; unavailable ones are skipped at
// selection time.
func buildOCRManager(cfg types.OCRConfig, client *http.Client, out io.Writer) *ocr.Manager {
	m := ocr.NewManager(cfg, out)
	m.Register(ocr.NewTesseractEngine())
	m.Register(ocr.NewOCRmyPDFEngine())
	m.Register(&ocr.OCRSpaceEngine{Client: client, APIKey: cfg.OCRSpaceAPIKey})
	m.Register(&ocr.MistralEngine{Client: client, APIKey: cfg.MistralAPIKey})
	return m
}
