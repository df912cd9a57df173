// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"
	"io"
	"iter"
	"math"
	"strings"

	"github.com/nlpodyssey/tiled/dtype"
)

const formatPrefix = "tensor(["

// String renders the tensor with the %v verb.
func (t Tensor) String() string {
	return fmt.Sprint(t)
}

// Format implements fmt.Formatter.
//
// The tensor is rendered as nested brackets in row-major order, for example
//
//	tensor([[1, 2, 3],
//	        [4, 5, 6]])
//
// The verb, flags, width and precision apply to each element, so that
// "%3v" right-aligns every element to three columns. Floating point
// elements are formatted as float32 or float64 values depending on the
// precision of the DType, integers as int64, booleans as bool.
func (t Tensor) Format(f fmt.State, verb rune) {
	if t.mapping == nil {
		_, _ = io.WriteString(f, "tensor(<nil>)")
		return
	}
	if verb == 's' {
		verb = 'v'
	}
	p := printer{
		w:      f,
		format: fmt.FormatString(f, verb),
		t:      t,
		shape:  t.mapping.Extents(),
	}
	next, stop := iter.Pull2(t.bitsIter())
	defer stop()
	p.next = next

	_, _ = io.WriteString(f, formatPrefix)
	p.print(0)
	_, _ = io.WriteString(f, "])")
}

type printer struct {
	w      io.Writer
	format string
	t      Tensor
	shape  []int
	next   func() ([]int, uint64, bool)
}

func (p *printer) print(depth int) {
	last := depth+1 == len(p.shape)
	for i := 0; i < p.shape[depth]; i++ {
		if last {
			if i > 0 {
				_, _ = io.WriteString(p.w, ", ")
			}
			_, bits, _ := p.next()
			_, _ = fmt.Fprintf(p.w, p.format, elementValue(p.t.dType, bits))
			continue
		}
		if i > 0 {
			_, _ = io.WriteString(p.w, ",\n")
			_, _ = io.WriteString(p.w, strings.Repeat(" ", len(formatPrefix)+depth))
		}
		_, _ = io.WriteString(p.w, "[")
		p.print(depth + 1)
		_, _ = io.WriteString(p.w, "]")
	}
}

// elementValue returns the Go value best representing bits of type dt.
func elementValue(dt dtype.DType, bits uint64) any {
	switch dt {
	case dtype.Bool:
		return bits != 0
	case dtype.Uint8:
		return uint8(bits)
	case dtype.Int8:
		return int64(int8(bits))
	case dtype.Int16:
		return int64(int16(bits))
	case dtype.Int32:
		return int64(int32(bits))
	case dtype.Int64:
		return int64(bits)
	case dtype.Float16, dtype.BFloat16, dtype.Float32:
		return float32(dt.Decode(bits))
	case dtype.Float64:
		return math.Float64frombits(bits)
	}
	return bits
}
