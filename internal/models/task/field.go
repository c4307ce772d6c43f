package task

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	stateAbsent fieldState = iota
	stateNull
	stateValue
)

// Field is a tri-state value of a sparse update: absent (leave unchanged),
// null (clear) or set to a value. The zero Field is absent.
type Field[T any] struct {
	state fieldState
	value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{state: stateValue, value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{state: stateNull}
}

// IsSet reports whether the field was supplied, either as null or as a value.
func (f Field[T]) IsSet() bool {
	return f.state != stateAbsent
}

func (f Field[T]) IsNull() bool {
	return f.state == stateNull
}

func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == stateValue
}

// Ptr returns nil for a null or absent field.
func (f Field[T]) Ptr() *T {
	if f.state != stateValue {
		return nil
	}
	v := f.value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the document, so an
// absent key keeps the zero (absent) state.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Value(v)
	return nil
}
