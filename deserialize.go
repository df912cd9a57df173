// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"encoding/binary"
	"fmt"

	"github.com/nlpodyssey/tiled/header"
)

const maxHeaderSize = 100_000_000

// Deserialize parses a byte-buffer holding a whole tensor file, as written
// by Save, without copying tensor data: the returned tensors are views of
// buffer, which must not be modified afterwards.
func Deserialize(buffer []byte) (File, error) {
	if len(buffer) < 8 {
		return File{}, fmt.Errorf("header too small")
	}
	n := binary.LittleEndian.Uint64(buffer)
	if n > maxHeaderSize {
		return File{}, fmt.Errorf("header too large: max %d, actual %d", maxHeaderSize, n)
	}
	stop := n + 8
	if stop > uint64(len(buffer)) {
		return File{}, fmt.Errorf("invalid header length")
	}

	var head header.Header
	if err := head.UnmarshalJSON(buffer[8:stop]); err != nil {
		return File{}, fmt.Errorf("invalid header deserialization: %w", err)
	}
	if err := head.Validate(); err != nil {
		return File{}, fmt.Errorf("header is invalid: %w", err)
	}

	data := buffer[stop:]
	end := 0
	for _, ht := range head.Tensors {
		end = max(end, ht.DataOffsets.End)
	}
	if end != len(data) {
		return File{}, fmt.Errorf("byte-buffer size %d does not match tensors size %d", len(data), end)
	}

	tensors := make(map[string]Tensor, len(head.Tensors))
	for name, ht := range head.Tensors {
		m, err := headerMapping(ht)
		if err != nil {
			return File{}, fmt.Errorf("invalid tensor %q: %w", name, err)
		}
		tensors[name] = Tensor{
			dType:   ht.DType,
			mapping: m,
			data:    data[ht.DataOffsets.Begin:ht.DataOffsets.End:ht.DataOffsets.End],
		}
	}
	return File{Tensors: tensors, Metadata: head.Metadata}, nil
}
