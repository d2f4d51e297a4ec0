package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// WriterState exposes internal state for observability.
type WriterState struct {
	Serializer string     `json:"serializer"`
	Locking    bool       `json:"locking"`
	Writes     int        `json:"writes"`
	LastPath   string     `json:"last_path,omitempty"`
	LastBytes  int        `json:"last_bytes,omitempty"`
	LastWrite  *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Writer) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	serializer := "unknown"
	if comp, ok := w.Serializer.(introspection.Component); ok {
		serializer = comp.ComponentType()
	}

	return WriterState{
		Serializer: serializer,
		Locking:    w.Lock,
		Writes:     w.writes,
		LastPath:   w.lastPath,
		LastBytes:  w.lastBytes,
		LastWrite:  w.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (w *Writer) ComponentType() string {
	return "output-writer"
}

// ComponentType implements introspection.Component.
func (s *JSONSerializer) ComponentType() string { return string(FormatJSON) }

// ComponentType implements introspection.Component.
func (s *YAMLSerializer) ComponentType() string { return string(FormatYAML) }

// ComponentType implements introspection.Component.
func (s *XLSXSerializer) ComponentType() string { return string(FormatXLSX) }

var _ introspection.Introspectable = (*Writer)(nil)
var _ introspection.Component = (*Writer)(nil)

func (w *Writer) recordWrite(path string, n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.writes++
	w.lastPath = path
	w.lastBytes = n
	w.lastWrite = &now
}
