// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header reads, validates and writes the JSON header of a tensor
// file.
//
// The file format is safetensors: an 8-byte little-endian header size,
// the JSON header, then the byte-buffer holding the data of all tensors.
// Tensors stored with a tiled layout carry an additional "layout" entry,
// and their data offsets cover the whole physical storage, padding
// included:
//
//	"w": {
//	  "dtype": "BF16",
//	  "shape": [3, 5, 7],
//	  "layout": {"kind": "tiled", "tile_extent": 4},
//	  "data_offsets": [0, 384]
//	}
package header

import (
	"bytes"
	"encoding/json"
)

// Header provides tensors information and metadata.
type Header struct {
	Tensors  TensorMap
	Metadata Metadata
	// ByteBufferOffset indicates the byte index position where the byte-buffer
	// is expected to start, relative to the beginning of the whole
	// data stream (or file).
	ByteBufferOffset int
}

// Metadata is a set of free-form key/value string pairs.
type Metadata map[string]string

// MarshalJSON serializes the tensors and metadata of the Header.
// Keys are sorted, and the metadata entry is omitted when empty.
func (h Header) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(h.Tensors)+1)
	for name, t := range h.Tensors {
		obj[name] = t
	}
	if len(h.Metadata) > 0 {
		obj[metadataKey] = h.Metadata
	}
	return json.Marshal(obj)
}

// UnmarshalJSON parses the JSON content of a header, that is, without
// the leading size. ByteBufferOffset is left unset.
func (h *Header) UnmarshalJSON(b []byte) error {
	raw, err := readAndDecodeJSON(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return err
	}
	parsed, err := convertRawHeader(raw)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
