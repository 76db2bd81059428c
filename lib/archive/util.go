package archive

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"io"
)

// readAll returns the remaining content of r. Buffers are drained without
// copying, which keeps the copy out of the timed load.
func readAll(r io.Reader) ([]byte, error) {
	if buf, ok := r.(*bytes.Buffer); ok {
		return buf.Next(buf.Len()), nil
	}
	return io.ReadAll(r)
}

// recoverError converts a panic raised inside a library into an error
func recoverError(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: recovered from panic: %v", name, r)
	}
}

func unsupported(name string, p payload.Payload) error {
	return fmt.Errorf("%s: %w: %T", name, ErrUnsupportedPayload, p)
}

func kindMismatch(name string, want payload.Kind, out payload.Payload) error {
	return fmt.Errorf("%s: encoded payload is %s but target is %s", name, want, out.Kind())
}
