package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes every message to all writers. A message counts as
// written when at least one writer took it whole, so a broken log file does not
// stop the STDOUT copy. Failures are combined in the returned error.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var errs error
	written := false
	for i, w := range cw.Writers {
		n, err := w.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("writer %d: %w", i, err))
			continue
		}
		written = true
	}

	if !written {
		return 0, errs
	}
	return len(p), errs
}
