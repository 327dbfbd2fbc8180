// Package jsonx provides thin wrappers around encoding/json.
package jsonx

// Thin wrapper to centralize JSON usage and allow future drop-in acceleration.
// Currently uses the Go stdlib to avoid platform/toolchain issues.

import (
	stdjson "encoding/json"
)

// Marshal encodes v into JSON using the standard library.
func Marshal(v any) ([]byte, error) {
	return stdjson.Marshal(v)
}

// Unmarshal decodes JSON data into v using the standard library.
func Unmarshal(data []byte, v any) error {
	return stdjson.Unmarshal(data, v)
}
