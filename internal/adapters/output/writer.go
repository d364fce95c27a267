// Package output provides changelog rendering and adapters for writing application output.
package output

import (
	"fmt"
	"io"
	"os"
)

// Writer writes computed results to the configured output destination.
// By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteVersion writes the version as a single line without any prefix.
func (w *Writer) WriteVersion(version string) error {
	_, err := fmt.Fprintln(w.out, version)
	return err
}

// WriteChangelog writes the changelog exactly as rendered.
func (w *Writer) WriteChangelog(text string) error {
	_, err := io.WriteString(w.out, text)
	return err
}
