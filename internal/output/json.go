/*
PURPOSE:
  Writes report data as JSON: summary rows as JSON Lines (NDJSON) and the
  run manifest (report.json) as a single pretty-printed document.

REQUIREMENTS:
  User-specified:
  - JSON output for easier parsing.

  Implementation-discovered:
  - JSON Lines is better for streaming/logging than a single large array (append-friendly).
  - Absent metrics are encoded as null, not 0.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder for lines.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("summary.jsonl")
  w.Write(row)
  w.Close()
*/

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/pretty"
)

// JSONWriter handles writing values to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single value as a JSON line.
func (jw *JSONWriter) Write(v any) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(v)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}

// WriteJSONFile marshals v and writes it pretty-printed to path.
func WriteJSONFile(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, pretty.Pretty(b), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
