// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package float16 provides conversions between float32 and the 16-bit
// floating point formats stored by tensors.
package float16

import (
	"math"

	"github.com/d4l3k/go-bfloat16"
	f16 "github.com/x448/float16"
)

// F16 is a 16-bit half-precision floating-point value,
// represented as raw bits (uint16).
type F16 uint16

// BF16 is a 16-bit brain floating-point value,
// represented as raw bits (uint16).
type BF16 uint16

// BF16QuietNaN is the canonical quiet NaN produced when converting NaN values.
const BF16QuietNaN BF16 = 0x7FC0

// BF16FromFloat32 converts v to bfloat16, rounding the 16 truncated
// mantissa bits to nearest, ties to even. NaN keeps its sign and becomes
// BF16QuietNaN.
func BF16FromFloat32(v float32) BF16 {
	bits := math.Float32bits(v)
	if v != v {
		sign := BF16(bits>>16) & 0x8000
		return sign | BF16QuietNaN
	}
	lsb := (bits >> 16) & 1
	bias := uint32(0x7FFF) + lsb
	return BF16((bits + bias) >> 16)
}

// Float32 widens the bfloat16 value to float32. The conversion is exact.
func (b BF16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// F16FromFloat32 converts v to IEEE 754 half precision, rounding to nearest even.
func F16FromFloat32(v float32) F16 {
	return F16(f16.Fromfloat32(v).Bits())
}

// Float32 widens the half precision value to float32. The conversion is exact.
func (h F16) Float32() float32 {
	return f16.Frombits(uint16(h)).Float32()
}

// DecodeBF16 decodes little-endian bfloat16 values from buf.
// A trailing odd byte is ignored.
func DecodeBF16(buf []byte) []float32 {
	if len(buf) < 2 {
		return nil
	}
	return bfloat16.DecodeFloat32(buf[:len(buf)&^1])
}
