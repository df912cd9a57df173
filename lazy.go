// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"math/bits"
	"slices"

	"github.com/nlpodyssey/tiled/header"
)

// LazyFile reads the content of a tensor file, lazy-loading the data of
// individual tensors.
//
// The io.ReadSeeker given to OpenLazy must remain available as long as
// tensors are being loaded. Loaded tensors are independent of it.
// A LazyFile is not safe for concurrent use.
type LazyFile struct {
	rs       io.ReadSeeker
	tensors  header.TensorMap
	metadata header.Metadata
	// dataOffset is the byte-buffer offset relative to the start of rs
	dataOffset int64
}

// OpenLazy reads from rs the header and validates it.
// The current seek position of rs is taken as the beginning of the file.
// See Load for the meaning of headerSizeLimit.
func OpenLazy(rs io.ReadSeeker, headerSizeLimit int) (*LazyFile, error) {
	initialOffset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial offset: %w", err)
	}

	head, err := readValidHeader(rs, headerSizeLimit)
	if err != nil {
		return nil, err
	}

	byteBufferOffset, err := checkedAddNonNegInt64(initialOffset, int64(head.ByteBufferOffset))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate total byte-buffer offset: %w", err)
	}

	return &LazyFile{
		rs:         rs,
		tensors:    head.Tensors,
		metadata:   head.Metadata,
		dataOffset: byteBufferOffset,
	}, nil
}

// Metadata returns the free-form key/value pairs of the header.
// It can be nil.
func (f *LazyFile) Metadata() map[string]string {
	return f.metadata
}

// Names returns the sorted names of all tensors.
func (f *LazyFile) Names() []string {
	return slices.Sorted(maps.Keys(f.tensors))
}

// Info returns the header entry of the named tensor, without reading its
// data, and whether it has been found.
func (f *LazyFile) Info(name string) (header.Tensor, bool) {
	t, ok := f.tensors[name]
	return t, ok
}

// Tensor reads the data of the named tensor.
func (f *LazyFile) Tensor(name string) (Tensor, error) {
	ht, ok := f.tensors[name]
	if !ok {
		return Tensor{}, fmt.Errorf("tensor %q not found", name)
	}
	offset, err := checkedAddNonNegInt64(f.dataOffset, int64(ht.DataOffsets.Begin))
	if err != nil {
		return Tensor{}, fmt.Errorf("failed to calculate tensor data offset: %w", err)
	}
	if _, err = f.rs.Seek(offset, io.SeekStart); err != nil {
		return Tensor{}, fmt.Errorf("failed to seek to tensor data offset: %w", err)
	}
	t, err := readTensor(ht, f.rs)
	if err != nil {
		return Tensor{}, fmt.Errorf("failed to read data of tensor %q: %w", name, err)
	}
	return t, nil
}

var errInt64SumOverflow = errors.New("int64 sum overflow")

func checkedAddNonNegInt64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("unexpected negative number")
	}
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || sum > math.MaxInt64 {
		return 0, errInt64SumOverflow
	}
	return int64(sum), nil
}
