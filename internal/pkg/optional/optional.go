// Package optional holds a value that may be absent, so that "not supplied"
// stays distinct from a zero value in partial update payloads.
package optional

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Value is either empty or holds a T. The zero Value is empty.
type Value[T comparable] struct {
	value T
	set   bool
}

func Of[T comparable](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

func Empty[T comparable]() Value[T] {
	return Value[T]{}
}

func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

func (v Value[T]) IsSet() bool {
	return v.set
}

// OrElse returns the held value, or fallback when v is empty.
func (v Value[T]) OrElse(fallback T) T {
	if !v.set {
		return fallback
	}
	return v.value
}

// Differs reports whether v holds a value that is not equal to current.
// An empty Value never differs.
func (v Value[T]) Differs(current T) bool {
	return v.set && v.value != current
}

// UnmarshalJSON treats a JSON null like an absent key.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*v = Value[T]{}
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Of(decoded)
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return jsonNull, nil
	}
	return json.Marshal(v.value)
}
