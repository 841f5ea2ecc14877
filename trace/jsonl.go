package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONLSink writes one JSON object per line. Lines are buffered; Close
// flushes and, when the sink owns the destination, closes it.
type JSONLSink struct {
	w     *bufio.Writer
	enc   *json.Encoder
	owned io.Closer
}

// NewJSONLSink wraps an arbitrary writer.
func NewJSONLSink(w io.Writer) *JSONLSink {
	bw := bufio.NewWriter(w)
	return &JSONLSink{w: bw, enc: json.NewEncoder(bw)}
}

// NewJSONLFile creates (or truncates) a file-backed sink.
func NewJSONLFile(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: creating %s: %w", path, err)
	}
	s := NewJSONLSink(f)
	s.owned = f
	return s, nil
}

func (s *JSONLSink) Write(rec Record) error {
	return s.enc.Encode(rec)
}

func (s *JSONLSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// ReadJSONL parses records back from a JSONL stream, in order.
func ReadJSONL(r io.Reader) ([]Record, error) {
	var out []Record
	dec := json.NewDecoder(r)
	for {
		var rec Record
		if err := dec.Decode(&rec); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, fmt.Errorf("trace: decoding record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}
