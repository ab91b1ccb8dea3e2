// Package pdf extracts plain text from PDF files by shelling out to the
// poppler-utils pdftotext binary. An external tool keeps the module free
// of heavyweight PDF parsing dependencies; the binary is widely packaged
// and the extractor fails with install instructions when it is missing.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPDFToolNotFound is returned when the pdftotext binary is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found on PATH")

// CommandRunner executes an external command and returns its combined
// output. It exists so tests can substitute the pdftotext invocation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF files to plain text.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor that invokes pdftotext directly.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract returns the text content of the PDF at path. Layout is not
// preserved; page breaks become blank lines.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}

	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("%w\n%s", ErrPDFToolNotFound, InstallInstructions())
	}

	// "-" writes the extracted text to stdout.
	out, err := e.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return strings.Join([]string{
		"Install pdftotext (part of poppler-utils):",
		"  macOS:         brew install poppler",
		"  Debian/Ubuntu: apt-get install poppler-utils",
		"  Fedora:        dnf install poppler-utils",
	}, "\n")
}
