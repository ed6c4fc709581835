// -- internal/reporting/reporter.go --
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// Supported trace formats.
const (
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Reporter writes frame snapshots to an output.
type Reporter interface {
	// Write records a single frame.
	Write(snap schemas.FrameSnapshot) error
	// Close flushes buffered output and closes the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format writing to outputPath. An empty path or
// "stdout" writes to standard output, which is never closed.
func New(format, outputPath string) (Reporter, error) {
	if !supported(format) {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}
	return NewWriter(format, writer)
}

// NewWriter creates a reporter that takes ownership of w.
func NewWriter(format string, w io.WriteCloser) (Reporter, error) {
	switch format {
	case FormatJSONL:
		return newJSONLReporter(w), nil
	case FormatCSV:
		return newCSVReporter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// NopCloser adapts a writer the caller keeps ownership of.
func NopCloser(w io.Writer) io.WriteCloser {
	return &nopWriteCloser{w}
}

func supported(format string) bool {
	return format == FormatJSONL || format == FormatCSV
}

// Drain writes every frame received until frames is closed, then closes r.
func Drain(r Reporter, frames <-chan schemas.FrameSnapshot) error {
	for s := range frames {
		if err := r.Write(s); err != nil {
			r.Close()
			return fmt.Errorf("writing trace frame %d: %w", s.Frame, err)
		}
	}
	return r.Close()
}
