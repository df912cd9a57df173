// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"
	"io"
	"sort"

	"github.com/nlpodyssey/tiled/header"
	"github.com/nlpodyssey/tiled/layout"
)

// File is the result of reading the full content of a tensor file.
type File struct {
	Tensors  map[string]Tensor
	Metadata map[string]string
}

// Load reads and interprets the whole content of a tensor file written
// by Save, or a safetensors file holding supported data types.
// Every tensor must have rank >= 1 and positive dimensions: scalar
// (rank 0) and empty (zero-sized dimension) entries are rejected as an
// invalid header.
//
// If headerSizeLimit is set to a positive number, its value is used to
// limit the reading of the header. This can be useful to guard against
// tampered or garbage data, avoiding giant memory allocations to hold
// header information. A value of zero, or a negative number, have no
// limiting effects.
func Load(r io.Reader, headerSizeLimit int) (File, error) {
	head, err := readValidHeader(r, headerSizeLimit)
	if err != nil {
		return File{}, err
	}

	ts := head.Tensors.TensorSlice()
	sort.Sort(header.TensorSliceByDataOffsets{TensorSlice: ts})

	tensors := make(map[string]Tensor, len(ts))
	for _, ht := range ts {
		t, err := readTensor(ht, r)
		if err != nil {
			return File{}, fmt.Errorf("failed to read data of tensor %q: %w", ht.Name, err)
		}
		tensors[ht.Name] = t
	}
	return File{Tensors: tensors, Metadata: head.Metadata}, nil
}

func readValidHeader(r io.Reader, sizeLimit int) (header.Header, error) {
	if sizeLimit > 0 {
		r = io.LimitReader(r, int64(sizeLimit))
	}
	head, err := header.Read(r)
	if err != nil {
		return header.Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	if err = head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("header is invalid: %w", err)
	}
	return head, nil
}

// headerMapping returns the layout.Mapping described by a header entry.
func headerMapping(ht header.Tensor) (layout.Mapping, error) {
	if ht.Layout.Kind == layout.Tiled {
		return layout.NewTiled(ht.Shape, ht.Layout.TileExtent)
	}
	return layout.NewRowMajor(ht.Shape)
}

func readTensor(ht header.Tensor, r io.Reader) (Tensor, error) {
	m, err := headerMapping(ht)
	if err != nil {
		return Tensor{}, err
	}
	t := Tensor{dType: ht.DType, mapping: m, data: make([]byte, ht.DataOffsets.Size())}
	if _, err = io.ReadFull(r, t.data); err != nil {
		return Tensor{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return t, nil
}
