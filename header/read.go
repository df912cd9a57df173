// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nlpodyssey/tiled/dtype"
)

type rawDecodedHeader map[string]map[string]any

const metadataKey = "__metadata__"

// Read reads and parses from "r" the initial part of a data stream:
// the header size followed by the JSON header.
//
// Note that after successfully reading and parsing, NO validation is
// performed on the obtained Header.
//
// This function will fail to read header data larger than math.MaxInt.
// The caller is responsible for guarding against reading data up to a lower
// limit, for example for protection against bad/corrupted data or specific
// attacks. This can be done by providing a reader implementation with a
// limiting mechanism in place. For example, see io.LimitedReader.
func Read(r io.Reader) (Header, error) {
	size, err := readHeaderSize(r)
	switch {
	case err != nil:
		return Header{}, err
	case size < 2: // a bare minimum header is "{}"
		return Header{}, fmt.Errorf("header size too small: %d", size)
	case size > math.MaxInt-8: // 8 bytes are the uint64 "size", already read
		return Header{}, fmt.Errorf("header size too large: %d", size)
	}

	raw, err := readAndDecodeJSON(r, int64(size))
	if err != nil {
		return Header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}

	h, err := convertRawHeader(raw)
	if err != nil {
		return Header{}, err
	}

	h.ByteBufferOffset = 8 + int(size) // take into account "size" uint64 bytes
	return h, nil
}

func readHeaderSize(r io.Reader) (uint64, error) {
	var arr [8]byte
	b := arr[:]
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, fmt.Errorf("failed to read header size: %w", err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

func readAndDecodeJSON(r io.Reader, size int64) (rawDecodedHeader, error) {
	dec := json.NewDecoder(&io.LimitedReader{R: r, N: size})
	dec.UseNumber()

	var raw rawDecodedHeader
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// take care of possible padding spaces after JSON object
	if off := dec.InputOffset(); off != size {
		if _, err := dec.Token(); err == nil {
			return nil, fmt.Errorf("unexpected data at byte offset %d", off)
		} else if err != io.EOF {
			return nil, err
		}
	}
	return raw, nil
}

func convertRawHeader(raw rawDecodedHeader) (h Header, err error) {
	if rawMeta, ok := raw[metadataKey]; ok {
		delete(raw, metadataKey)
		if h.Metadata, err = convertRawMetadata(rawMeta); err != nil {
			return
		}
	}
	h.Tensors, err = convertRawTensors(raw)
	return
}

func convertRawMetadata(raw map[string]any) (Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	metadata := make(Metadata, len(raw))
	for key, rawVal := range raw {
		var ok bool
		if metadata[key], ok = rawVal.(string); !ok {
			return nil, fmt.Errorf("failed to interpret header metadata: found non-string value for key %q", key)
		}
	}
	return metadata, nil
}

func convertRawTensors(raw rawDecodedHeader) (TensorMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tensors := make(TensorMap, len(raw))
	for key, rawVal := range raw {
		var err error
		if tensors[key], err = convertRawTensor(key, rawVal); err != nil {
			return nil, fmt.Errorf("failed to interpret header tensor %q: %w", key, err)
		}
	}
	return tensors, nil
}

func convertRawTensor(name string, raw map[string]any) (t Tensor, err error) {
	t.Name = name
	if t.DType, err = convertRawTensorDType(raw); err != nil {
		return
	}
	if t.Shape, err = convertNonNegInts(raw, "shape"); err != nil {
		return
	}
	if t.DataOffsets, err = convertRawDataOffsets(raw); err != nil {
		return
	}
	known := 3
	if _, ok := raw["layout"]; ok {
		known++
		if t.Layout, err = convertRawLayout(raw); err != nil {
			return
		}
	}
	if len(raw) != known {
		err = errors.New("JSON object contains unknown keys")
	}
	return
}

// field returns the value of key in obj, which must be of type T.
// kind names T in error messages, path names the key.
func field[T any](obj map[string]any, key, path, kind string) (T, error) {
	var zero T
	rawVal, ok := obj[key]
	if !ok {
		return zero, fmt.Errorf("%q is missing", path)
	}
	v, ok := rawVal.(T)
	if !ok {
		return zero, fmt.Errorf("found non-%s %q value", kind, path)
	}
	return v, nil
}

func convertRawLayout(raw map[string]any) (l Layout, err error) {
	obj, err := field[map[string]any](raw, "layout", "layout", "object")
	if err != nil {
		return Layout{}, err
	}
	kind, err := field[string](obj, "kind", "layout.kind", "string")
	if err != nil {
		return Layout{}, err
	}
	if err = l.Kind.UnmarshalText([]byte(kind)); err != nil {
		return Layout{}, fmt.Errorf(`invalid "layout.kind" value: %q`, kind)
	}
	if rawTile, ok := obj["tile_extent"]; ok {
		if l.TileExtent, err = convertNonNegInt(rawTile); err != nil {
			return Layout{}, fmt.Errorf(`failed to interpret "layout.tile_extent" value: %w`, err)
		}
		if len(obj) == 2 {
			return l, nil
		}
	} else if len(obj) == 1 {
		return l, nil
	}
	return Layout{}, errors.New(`"layout" object contains unknown keys`)
}

func convertRawTensorDType(raw map[string]any) (dtype.DType, error) {
	code, err := field[string](raw, "dtype", "dtype", "string")
	if err != nil {
		return 0, err
	}
	var dt dtype.DType
	if err := dt.UnmarshalText([]byte(code)); err != nil {
		return 0, fmt.Errorf(`invalid "dtype" value: %q`, code)
	}
	return dt, nil
}

func convertRawDataOffsets(raw map[string]any) (DataOffsets, error) {
	offsets, err := convertNonNegInts(raw, "data_offsets")
	if err != nil {
		return DataOffsets{}, err
	}
	if n := len(offsets); n != 2 {
		return DataOffsets{}, fmt.Errorf(`bad "data_offsets" length: expected 2, actual %d`, n)
	}
	return DataOffsets{Begin: offsets[0], End: offsets[1]}, nil
}

// convertNonNegInts reads key from raw as a JSON array of non-negative
// integers.
func convertNonNegInts(raw map[string]any, key string) ([]int, error) {
	items, err := field[[]any](raw, key, key, "array")
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(items))
	for i, item := range items {
		if ints[i], err = convertNonNegInt(item); err != nil {
			return nil, fmt.Errorf("failed to interpret %q value at index %d: %w", key, i, err)
		}
	}
	return ints, nil
}

func convertNonNegInt(value any) (int, error) {
	n, ok := value.(json.Number)
	if !ok {
		return 0, errors.New("value is not a number")
	}
	v, err := strconv.ParseInt(n.String(), 10, strconv.IntSize)
	switch {
	case err != nil:
		return 0, fmt.Errorf("failed to convert value %q to int: %w", n, err)
	case v < 0:
		return 0, fmt.Errorf("value is negative: %d", v)
	}
	return int(v), nil
}
