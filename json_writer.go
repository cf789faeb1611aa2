package chipbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys appear in the order they
// were appended. The zero value is ready to use. Errors stick: once a call
// fails, later calls are no-ops and MarshalJSON returns the first error.
type jsonObjectWriter struct {
	fields [][]byte // rendered "key":value segments, in append order
	err    error
}

// Append adds one key-value pair, the value marshaled with json.Marshal.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("marshal value for key %q: %w", key, err)
		return w
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%q:", key)
	buf.Write(raw)
	w.fields = append(w.fields, buf.Bytes())
	return w
}

// Optional appends the pair only when value is not its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Embed splices the fields of an already rendered JSON object into the one
// being built, dropping the outer braces.
func (w *jsonObjectWriter) Embed(rawJSON []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	inner := bytes.TrimSpace(rawJSON)
	if len(inner) >= 2 && inner[0] == '{' && inner[len(inner)-1] == '}' {
		inner = inner[1 : len(inner)-1]
	}
	if len(inner) > 0 {
		w.fields = append(w.fields, inner)
	}
	return w
}

// EmbedFrom marshals v and splices its fields into the object being built.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("marshal for embedding: %w", err)
		return w
	}
	return w.Embed(raw)
}

// MarshalJSON renders the object. It satisfies json.Marshaler.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range w.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(f)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
