// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

// fakeExecutor records invocations and scripts their results.
type fakeExecutor struct {
	lookPathErr map[string]error
	runErr      error
	commands    [][]string
	onRun       func(name string, args []string) error
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if err, ok := f.lookPathErr[file]; ok && err != nil {
		return "", err
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) error {
	cmd := append([]string{name}, args...)
	f.commands = append(f.commands, cmd)
	if f.onRun != nil {
		return f.onRun(name, args)
	}
	return f.runErr
}

func TestOCRmyPDFProcess(t *testing.T) {
	exec := &fakeExecutor{}
	exec.onRun = func(name string, args []string) error {
		// Locate the sidecar path and fill it in, as the real tool would.
		for i, a := range args {
			if a == "--sidecar" {
				return os.WriteFile(args[i+1], []byte("  recognized sidecar text \n"), 0o644)
			}
		}
		return fmt.Errorf("no --sidecar argument")
	}

	e := &OCRmyPDFEngine{exec: exec}
	outcome, err := e.Process(context.Background(), "/tmp/in.pdf", Options{Languages: []string{"eng", "deu"}})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome.Text != "recognized sidecar text" {
		t.Errorf("Text = %q", outcome.Text)
	}
	if outcome.Confidence != ocrmypdfConfidence {
		t.Errorf("Confidence = %f", outcome.Confidence)
	}

	if len(exec.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(exec.commands))
	}
	joined := strings.Join(exec.commands[0], " ")
	for _, want := range []string{"ocrmypdf", "--force-ocr", "-l eng+deu", "/tmp/in.pdf"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}

func TestOCRmyPDFFastModePages(t *testing.T) {
	exec := &fakeExecutor{}
	exec.onRun = func(_ string, args []string) error {
		for i, a := range args {
			if a == "--sidecar" {
				return os.WriteFile(args[i+1], []byte("t"), 0o644)
			}
		}
		return nil
	}

	e := &OCRmyPDFEngine{exec: exec}
	if _, err := e.Process(context.Background(), "/tmp/in.pdf", Options{FastMode: true, MaxPages: 5}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	joined := strings.Join(exec.commands[0], " ")
	for _, want := range []string{"--optimize 0", "--pages 1-5"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}

func TestOCRmyPDFRunFailure(t *testing.T) {
	e := &OCRmyPDFEngine{exec: &fakeExecutor{runErr: fmt.Errorf("exit status 2")}}
	if _, err := e.Process(context.Background(), "/tmp/in.pdf", Options{}); err == nil {
		t.Fatal("expected error when ocrmypdf fails")
	}
}

func TestOCRmyPDFAvailability(t *testing.T) {
	avail := &OCRmyPDFEngine{exec: &fakeExecutor{}}
	if !avail.Available() {
		t.Error("available = false with binary on PATH")
	}
	missing := &OCRmyPDFEngine{exec: &fakeExecutor{lookPathErr: map[string]error{binOCRmyPDF: fmt.Errorf("not found")}}}
	if missing.Available() {
		t.Error("available = true with binary missing")
	}
}

func TestTesseractAvailability(t *testing.T) {
	avail := &TesseractEngine{exec: &fakeExecutor{}}
	if !avail.Available() {
		t.Error("available = false with binaries on PATH")
	}
	noRaster := &TesseractEngine{exec: &fakeExecutor{lookPathErr: map[string]error{binPdftoppm: fmt.Errorf("not found")}}}
	if noRaster.Available() {
		t.Error("available = true without pdftoppm")
	}
}

func TestTesseractRasterizeArgs(t *testing.T) {
	exec := &fakeExecutor{}
	e := &TesseractEngine{exec: exec}

	if _, err := e.rasterize(context.Background(), "/tmp/in.pdf", t.TempDir(), Options{FastMode: true, MaxPages: 10}); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	joined := strings.Join(exec.commands[0], " ")
	for _, want := range []string{"pdftoppm", "-png", "-r 150", "-f 1", "-l 10", "/tmp/in.pdf"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}
