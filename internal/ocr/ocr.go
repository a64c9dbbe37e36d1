// Package ocr wraps the external text-extraction capability. A deployment
// may lack it entirely; its absence degrades receipt pre-checks, never the
// submission flow.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrUnavailable is returned when no extraction engine is present in the
// runtime environment.
var ErrUnavailable = errors.New("extraction unavailable")

// Extractor turns a receipt image into raw text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Tesseract shells out to the tesseract binary, the same engine the hosted
// deployment uses.
type Tesseract struct {
	cmd  string
	lang string
}

// Detect returns a Tesseract extractor when the binary is on PATH (or at the
// configured location), or nil when the environment has no OCR support.
func Detect(cmd string) *Tesseract {
	if cmd == "" {
		cmd = "tesseract"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return nil
	}
	return &Tesseract{cmd: cmd, lang: "spa"}
}

func (t *Tesseract) Extract(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// "stdout" makes tesseract print the recognised text instead of writing
	// an output file.
	out, err := exec.CommandContext(ctx, t.cmd, path, "stdout", "-l", t.lang).Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
