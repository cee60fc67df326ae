package summarize

import (
	"encoding/json"
	"io"
	"net/http"
)

// streamWriter emits newline-delimited JSON records, flushing after every
// record so progress reaches the client as it happens.
type streamWriter struct {
	w io.Writer
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{w: w}
}

// Emit writes one record followed by a newline and flushes if possible.
func (s *streamWriter) Emit(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
