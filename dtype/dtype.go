// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype defines the closed set of element types a tensor can hold,
// together with their byte widths and casting rules.
package dtype

import (
	"fmt"
)

// DType represents a tensor element type.
type DType uint8

const (
	// Bool represents an 8-bit boolean data type.
	Bool DType = iota + 1
	// Uint8 represents an 8-bit unsigned integer data type.
	Uint8
	// Int8 represents an 8-bit signed integer data type.
	Int8
	// Int16 represents a 16-bit signed integer data type.
	Int16
	// Int32 represents a 32-bit signed integer data type.
	Int32
	// Int64 represents a 64-bit signed integer data type.
	Int64
	// Float16 represents a 16-bit half-precision floating point data type.
	Float16
	// BFloat16 represents a 16-bit brain floating point data type.
	BFloat16
	// Float32 represents a 32-bit floating point data type.
	Float32
	// Float64 represents a 64-bit floating point data type.
	Float64
)

// All lists every valid DType in declaration order.
var All = [...]DType{Bool, Uint8, Int8, Int16, Int32, Int64, Float16, BFloat16, Float32, Float64}

var (
	dTypeToString = [...]string{
		Bool:     "bool",
		Uint8:    "uint8",
		Int8:     "int8",
		Int16:    "int16",
		Int32:    "int32",
		Int64:    "int64",
		Float16:  "float16",
		BFloat16: "bfloat16",
		Float32:  "float32",
		Float64:  "float64",
	}
	// dTypeToCode holds safetensors type codes.
	dTypeToCode = [...]string{
		Bool:     "BOOL",
		Uint8:    "U8",
		Int8:     "I8",
		Int16:    "I16",
		Int32:    "I32",
		Int64:    "I64",
		Float16:  "F16",
		BFloat16: "BF16",
		Float32:  "F32",
		Float64:  "F64",
	}
	dTypeToSize = [...]int{
		Bool:     1,
		Uint8:    1,
		Int8:     1,
		Int16:    2,
		Int32:    4,
		Int64:    8,
		Float16:  2,
		BFloat16: 2,
		Float32:  4,
		Float64:  8,
	}
	nameToDType = func() map[string]DType {
		m := make(map[string]DType, 2*len(All))
		for _, dt := range All {
			m[dTypeToString[dt]] = dt
			m[dTypeToCode[dt]] = dt
		}
		return m
	}()
)

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || dt > Float64 {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// String returns the human-readable name of a DType, such as "bfloat16".
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypeToString[dt]
}

// Code returns the safetensors type code of a DType, such as "BF16",
// or an empty string if the DType value is invalid.
func (dt DType) Code() string {
	if err := dt.Validate(); err != nil {
		return ""
	}
	return dTypeToCode[dt]
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt]
}

// IsFloat reports whether dt is a floating point type.
func (dt DType) IsFloat() bool {
	switch dt {
	case Float16, BFloat16, Float32, Float64:
		return true
	}
	return false
}

// IsInteger reports whether dt is a signed or unsigned integer type.
func (dt DType) IsInteger() bool {
	switch dt {
	case Uint8, Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// Parse returns the DType matching either its name ("bfloat16")
// or its safetensors code ("BF16").
func Parse(s string) (DType, error) {
	dt, ok := nameToDType[s]
	if !ok {
		return 0, fmt.Errorf("invalid DType string value %q", s)
	}
	return dt, nil
}

// MarshalJSON satisfies json.Marshaler interface.
// The safetensors type code is used.
func (dt DType) MarshalJSON() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(`"` + dTypeToCode[dt] + `"`), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
func (dt *DType) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
	}
	v, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
	}
	*dt = v
	return nil
}

// MarshalText satisfies encoding.TextMarshaler interface.
// The safetensors type code is used.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToCode[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DType) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return fmt.Errorf("failed to text-unmarshal DType from value %q", text)
	}
	*dt = v
	return nil
}
