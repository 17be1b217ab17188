// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/docharvest/pkg/types"
)

// priorityOrder is the cost-ascending engine order used for automatic
// selection and the default fallback chain. Local engines come first,
// then hosted APIs by price.
var priorityOrder = []string{"tesseract", "ocrmypdf", "ocrspace", "mistral"}

// defaultAttemptTimeout bounds one engine attempt when the configuration
// does not set one.
const defaultAttemptTimeout = 120 * time.Second

// Manager owns the engine registry and runs the selection and fallback
// logic.
type Manager struct {
	cfg     types.OCRConfig
	engines map[string]Engine
	order   []string // registration order
	out     io.Writer
}

// NewManager returns a manager with an empty registry.
func NewManager(cfg types.OCRConfig, out io.Writer) *Manager {
	return &Manager{
		cfg:     cfg,
		engines: make(map[string]Engine),
		out:     out,
	}
}

// Register adds an engine to the registry. Registering a second engine
// under the same name replaces the first.
func (m *Manager) Register(e Engine) {
	name := e.Name()
	if _, exists := m.engines[name]; !exists {
		m.order = append(m.order, name)
	}
	m.engines[name] = e
}

// Engines returns metadata for every registered engine, with current
// availability, in registration order.
func (m *Manager) Engines() []types.EngineInfo {
	infos := make([]types.EngineInfo, 0, len(m.order))
	for _, name := range m.order {
		e := m.engines[name]
		info := e.Describe()
		info.Available = e.Available()
		infos = append(infos, info)
	}
	return infos
}

// Select picks the engine chain for a run: the primary engine followed by
// its fallbacks. An explicitly named primary that is unavailable degrades
// to automatic selection: first available engine in the cost-ascending
// priority order, then first available in registration order. An empty
// chain is an error, the caller cannot OCR at all.
func (m *Manager) Select() ([]Engine, error) {
	var chain []Engine
	seen := make(map[string]bool)

	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if e, ok := m.engines[name]; ok && e.Available() {
			chain = append(chain, e)
		}
	}

	if primary := m.cfg.PrimaryEngine; primary != "" && primary != "auto" {
		add(primary)
	}
	if len(chain) == 0 {
		for _, name := range priorityOrder {
			add(name)
			if len(chain) > 0 {
				break
			}
		}
	}
	if len(chain) == 0 {
		for _, name := range m.order {
			add(name)
			if len(chain) > 0 {
				break
			}
		}
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no OCR engine available")
	}

	// Only the configured fallbacks join the chain. Engines the
	// configuration excluded are never attempted.
	if m.cfg.EnableFallback {
		fallbacks := m.cfg.FallbackEngines
		if len(fallbacks) == 0 {
			fallbacks = priorityOrder
		}
		for _, name := range fallbacks {
			add(name)
		}
	}
	return chain, nil
}

// Process runs the fallback chain over the PDF at pdfPath. Each attempt
// gets its own timeout; a timed-out engine is abandoned and the next one
// starts immediately. The first attempt that produces non-empty text wins.
func (m *Manager) Process(ctx context.Context, pdfPath string) (types.OCROutcome, error) {
	chain, err := m.Select()
	if err != nil {
		return types.OCROutcome{}, err
	}

	opts := Options{
		Languages: m.cfg.Languages,
		FastMode:  m.cfg.FastMode,
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"eng"}
	}
	if m.cfg.FastMode {
		opts.MaxPages = m.cfg.MaxPages
		if opts.MaxPages <= 0 {
			opts.MaxPages = 10
		}
	}

	var lastName string
	var lastErr error
	for _, e := range chain {
		// Availability can change between selection and attempt.
		if !e.Available() {
			continue
		}
		fmt.Fprintf(m.out, "ocr attempt: %s\n", e.Name())
		outcome, err := m.attempt(ctx, e, pdfPath, opts)
		lastName = e.Name()
		if err != nil {
			lastErr = err
			fmt.Fprintf(m.out, "ocr failed: %s: %v\n", e.Name(), err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		outcome.Engine = e.Name()
		outcome.Clamp()
		return outcome, nil
	}

	if lastErr == nil {
		return types.OCROutcome{}, fmt.Errorf("no OCR engine available")
	}
	return types.OCROutcome{}, fmt.Errorf("all OCR engines failed, last (%s): %w", lastName, lastErr)
}

// attempt runs one engine under its own timeout. The engine goroutine may
// outlive a timed-out attempt; the context it received is cancelled so
// well-behaved engines stop promptly.
func (m *Manager) attempt(ctx context.Context, e Engine, pdfPath string, opts Options) (types.OCROutcome, error) {
	timeout := m.cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	if m.cfg.FastMode {
		timeout /= 2
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		outcome types.OCROutcome
		err     error
	}
	ch := make(chan result, 1)
	start := time.Now()
	go func() {
		outcome, err := e.Process(attemptCtx, pdfPath, opts)
		ch <- result{outcome, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return types.OCROutcome{}, res.err
		}
		if strings.TrimSpace(res.outcome.Text) == "" {
			return types.OCROutcome{}, fmt.Errorf("engine produced no text")
		}
		if res.outcome.ProcessingMS == 0 {
			res.outcome.ProcessingMS = time.Since(start).Milliseconds()
		}
		return res.outcome, nil
	case <-attemptCtx.Done():
		return types.OCROutcome{}, fmt.Errorf("engine timed out after %s: %w", timeout, attemptCtx.Err())
	}
}
