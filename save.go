// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/nlpodyssey/tiled/header"
	"github.com/nlpodyssey/tiled/layout"
)

// Save writes the given tensors and additional metadata to w, in
// safetensors format.
//
// The physical storage of each tensor is written as is, ordered by tensor
// name. Tiled tensors are recorded with their logical shape and a "layout"
// entry describing the tile extent, so that Load restores them as tiled
// tensors sharing no storage with the originals.
func Save(w io.Writer, tensors map[string]Tensor, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(tensors))
	head, err := makeValidHeader(names, tensors, metadata)
	if err != nil {
		return err
	}
	if err = writeHeader(w, head); err != nil {
		return err
	}
	for _, name := range names {
		if _, err = w.Write(tensors[name].data); err != nil {
			return fmt.Errorf("failed to write data of tensor %q: %w", name, err)
		}
	}
	return nil
}

func makeValidHeader(names []string, tensors map[string]Tensor, metadata map[string]string) (header.Header, error) {
	tm := make(header.TensorMap, len(tensors))
	offset := 0
	for _, name := range names {
		t := tensors[name]
		if t.mapping == nil {
			return header.Header{}, fmt.Errorf("tensor %q is not initialized", name)
		}
		ht := header.Tensor{
			Name:        name,
			DType:       t.dType,
			Shape:       t.Shape(),
			DataOffsets: header.DataOffsets{Begin: offset, End: offset + len(t.data)},
		}
		if t.mapping.Kind() == layout.Tiled {
			ht.Layout = header.Layout{Kind: layout.Tiled, TileExtent: t.mapping.TileExtent()}
		}
		tm[name] = ht
		offset = ht.DataOffsets.End
	}
	head := header.Header{Tensors: tm, Metadata: metadata}
	if err := head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("failed to generate a valid header: %w", err)
	}
	return head, nil
}

var headerPadding = [8]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

func writeHeader(w io.Writer, head header.Header) error {
	jsonHeader, err := head.MarshalJSON()
	if err != nil {
		return err
	}
	jsonLen := len(jsonHeader)
	// forcing 8-byte alignment
	toAlign := (8 - jsonLen%8) % 8

	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(jsonLen+toAlign))
	if _, err = w.Write(size[:]); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err = w.Write(jsonHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if toAlign > 0 {
		if _, err = w.Write(headerPadding[:toAlign]); err != nil {
			return fmt.Errorf("failed to write header padding: %w", err)
		}
	}
	return nil
}
