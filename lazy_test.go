// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLazy(t *testing.T) {
	tensors := map[string]Tensor{
		"b": mustTensor(t)(From(Arange(1, 106, dtype.BFloat16)).Then(Reshape(3, 5, 7), ToTiledExtent(4)).Tensor()),
		"a": mustTensor(t)(Arange(0, 10, dtype.Int32)),
	}
	var buf bytes.Buffer
	buf.WriteString("prefix")
	require.NoError(t, Save(&buf, tensors, map[string]string{"k": "v"}))

	r := bytes.NewReader(buf.Bytes())
	_, err := r.Seek(6, io.SeekStart)
	require.NoError(t, err)

	f, err := OpenLazy(r, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "v"}, f.Metadata())
	assert.Equal(t, []string{"a", "b"}, f.Names())

	info, ok := f.Info("b")
	require.True(t, ok)
	assert.Equal(t, layout.Tiled, info.Layout.Kind)
	assert.Equal(t, 384, info.DataOffsets.Size())

	_, ok = f.Info("c")
	assert.False(t, ok)

	// any order
	for _, name := range []string{"b", "a", "b"} {
		got, err := f.Tensor(name)
		require.NoError(t, err, name)
		assert.True(t, got.Equal(tensors[name]), name)
		assert.Equal(t, tensors[name].Layout(), got.Layout(), name)
	}

	_, err = f.Tensor("c")
	assert.EqualError(t, err, `tensor "c" not found`)
}

func TestOpenLazy_Errors(t *testing.T) {
	_, err := OpenLazy(bytes.NewReader([]byte{0}), 10)
	assert.EqualError(t, err, "failed to read header: failed to read header size: unexpected EOF")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	data := makeFile(`{"x":{"dtype":"F32","shape":[4],"data_offsets":[0,16]}}`, 4)
	f, err := OpenLazy(bytes.NewReader(data), 0)
	require.NoError(t, err)
	_, err = f.Tensor("x")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCheckedAddNonNegInt64(t *testing.T) {
	n, err := checkedAddNonNegInt64(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = checkedAddNonNegInt64(-1, 3)
	assert.Error(t, err)

	_, err = checkedAddNonNegInt64(math.MaxInt64, 1)
	assert.ErrorIs(t, err, errInt64SumOverflow)
}
