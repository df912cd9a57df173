// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"encoding/binary"
	"math"

	"github.com/nlpodyssey/tiled/float16"
)

// caster converts a value to the bit pattern of one DType.
type caster struct {
	fromInt   func(int64) uint64
	fromFloat func(float64) uint64
	decode    func(uint64) float64
}

var casters = [...]caster{
	Bool: {
		fromInt:   func(v int64) uint64 { return boolBits(v != 0) },
		fromFloat: func(v float64) uint64 { return boolBits(v != 0) },
		decode:    func(b uint64) float64 { return float64(b & 1) },
	},
	Uint8: {
		fromInt:   func(v int64) uint64 { return uint64(uint8(v)) },
		fromFloat: func(v float64) uint64 { return uint64(uint8(int64(v))) },
		decode:    func(b uint64) float64 { return float64(uint8(b)) },
	},
	Int8: {
		fromInt:   func(v int64) uint64 { return uint64(uint8(int8(v))) },
		fromFloat: func(v float64) uint64 { return uint64(uint8(int8(int64(v)))) },
		decode:    func(b uint64) float64 { return float64(int8(b)) },
	},
	Int16: {
		fromInt:   func(v int64) uint64 { return uint64(uint16(int16(v))) },
		fromFloat: func(v float64) uint64 { return uint64(uint16(int16(int64(v)))) },
		decode:    func(b uint64) float64 { return float64(int16(b)) },
	},
	Int32: {
		fromInt:   func(v int64) uint64 { return uint64(uint32(int32(v))) },
		fromFloat: func(v float64) uint64 { return uint64(uint32(int32(int64(v)))) },
		decode:    func(b uint64) float64 { return float64(int32(b)) },
	},
	Int64: {
		fromInt:   func(v int64) uint64 { return uint64(v) },
		fromFloat: func(v float64) uint64 { return uint64(int64(v)) },
		decode:    func(b uint64) float64 { return float64(int64(b)) },
	},
	Float16: {
		fromInt:   func(v int64) uint64 { return uint64(float16.F16FromFloat32(float32(v))) },
		fromFloat: func(v float64) uint64 { return uint64(float16.F16FromFloat32(float32(v))) },
		decode:    func(b uint64) float64 { return float64(float16.F16(b).Float32()) },
	},
	BFloat16: {
		fromInt:   func(v int64) uint64 { return uint64(float16.BF16FromFloat32(float32(v))) },
		fromFloat: func(v float64) uint64 { return uint64(float16.BF16FromFloat32(float32(v))) },
		decode:    func(b uint64) float64 { return float64(float16.BF16(b).Float32()) },
	},
	Float32: {
		fromInt:   func(v int64) uint64 { return uint64(math.Float32bits(float32(v))) },
		fromFloat: func(v float64) uint64 { return uint64(math.Float32bits(float32(v))) },
		decode:    func(b uint64) float64 { return float64(math.Float32frombits(uint32(b))) },
	},
	Float64: {
		fromInt:   func(v int64) uint64 { return math.Float64bits(float64(v)) },
		fromFloat: func(v float64) uint64 { return math.Float64bits(v) },
		decode:    func(b uint64) float64 { return math.Float64frombits(b) },
	},
}

func boolBits(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// CastInt returns the bit pattern of v converted to dt.
// Integer types wrap around; floating point types round to nearest even.
// It panics if dt is invalid.
func (dt DType) CastInt(v int64) uint64 {
	return dt.caster().fromInt(v)
}

// CastFloat returns the bit pattern of v converted to dt.
// Integer types truncate toward zero before wrapping around.
// It panics if dt is invalid.
func (dt DType) CastFloat(v float64) uint64 {
	return dt.caster().fromFloat(v)
}

// Decode interprets bits as a value of type dt.
// It panics if dt is invalid.
func (dt DType) Decode(bits uint64) float64 {
	return dt.caster().decode(bits)
}

// Zero returns the bit pattern of the zero value of dt.
// It is the same for every type.
func (dt DType) Zero() uint64 {
	return 0
}

// Load reads the little-endian element at index i of buf.
func (dt DType) Load(buf []byte, i int) uint64 {
	switch size := dt.Size(); size {
	case 1:
		return uint64(buf[i])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[i*2:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[i*4:]))
	case 8:
		return binary.LittleEndian.Uint64(buf[i*8:])
	}
	panic(dt.Validate())
}

// Store writes bits as the little-endian element at index i of buf.
func (dt DType) Store(buf []byte, i int, bits uint64) {
	switch size := dt.Size(); size {
	case 1:
		buf[i] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(bits))
	case 8:
		binary.LittleEndian.PutUint64(buf[i*8:], bits)
	default:
		panic(dt.Validate())
	}
}

func (dt DType) caster() *caster {
	if err := dt.Validate(); err != nil {
		panic(err)
	}
	return &casters[dt]
}
