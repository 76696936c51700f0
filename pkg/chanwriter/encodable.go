package chanwriter

import (
	"encoding/json"
	"io"
)

// Encodable is a message that can serialize itself into a writer.
// Writer.Encode uses it to combine serialization and flush in one call.
type Encodable interface {
	Encode(w io.Writer) error
}

// EncodeFunc adapts a function to the Encodable interface.
type EncodeFunc func(w io.Writer) error

// Encode calls f(w).
func (f EncodeFunc) Encode(w io.Writer) error {
	return f(w)
}

// Bytes is an Encodable that writes a fixed byte slice.
type Bytes []byte

// Encode writes the bytes to w.
func (b Bytes) Encode(w io.Writer) error {
	_, err := w.Write(b)
	return err
}

// String is an Encodable that writes a fixed string.
type String string

// Encode writes the string to w.
func (s String) Encode(w io.Writer) error {
	_, err := io.WriteString(w, string(s))
	return err
}

// JSON returns an Encodable that marshals v as a single JSON line,
// trailing newline included.
func JSON(v interface{}) Encodable {
	return EncodeFunc(func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	})
}
