// Package optional models patch fields that distinguish "not sent" from
// "sent as null" and from a zero value. A Value decoded from JSON is Present
// only when its key appeared in the document.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a presence-tagged field.
type Value[T any] struct {
	present bool
	null    bool
	value   T
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{present: true, value: v}
}

// Null returns a present value explicitly set to null.
func Null[T any]() Value[T] {
	return Value[T]{present: true, null: true}
}

// FromPtr maps nil to Null and anything else to Of.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// Present reports whether the field was provided, null included.
func (v Value[T]) Present() bool { return v.present }

// IsNull reports whether the field was provided as null.
func (v Value[T]) IsNull() bool { return v.present && v.null }

// Get returns the value and whether one is set (present and not null).
func (v Value[T]) Get() (T, bool) {
	if !v.present || v.null {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Ptr returns a pointer to a copy of the value, or nil when absent or null.
func (v Value[T]) Ptr() *T {
	if !v.present || v.null {
		return nil
	}
	out := v.value
	return &out
}

// Apply returns the field after patching current: a present field replaces it
// (null clears it), an absent one keeps a copy of current.
func Apply[T any](current *T, v Value[T]) *T {
	if v.present {
		return v.Ptr()
	}
	if current == nil {
		return nil
	}
	out := *current
	return &out
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what marks the field as provided.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.null = true
		var zero T
		v.value = zero
		return nil
	}
	v.null = false
	return json.Unmarshal(data, &v.value)
}

// MarshalJSON writes null for absent and null values.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.present || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
