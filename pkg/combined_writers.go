package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter copies every write to all of its writers, so the same log
// line can go to a file and the console. A failing writer does not stop
// the others; all failures are returned together.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer{}, writers...),
	}
}

func (cw *CombinedWriter) Len() int {
	return len(cw.writers)
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	failed := 0
	for i, w := range cw.writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, fmt.Errorf("writer %d: %w", i, werr))
			failed++
		}
	}
	if failed == len(cw.writers) && failed > 0 {
		return 0, err
	}
	return len(p), err
}
