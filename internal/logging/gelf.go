package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfWriter dials a Graylog endpoint and returns a writer suitable for a
// slog text handler. Each Write is shipped as one GELF message over UDP.
func NewGelfWriter(address string) (io.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("dial graylog at %s: %w", address, err)
	}
	return w, nil
}
