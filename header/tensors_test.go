// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataOffsets(t *testing.T) {
	d := DataOffsets{Begin: 6, End: 26}
	assert.Equal(t, 20, d.Size())
	assert.True(t, DataOffsets{0, 6}.Less(d))
	assert.True(t, DataOffsets{6, 10}.Less(d))
	assert.False(t, d.Less(d))
	assert.False(t, DataOffsets{7, 8}.Less(d))

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[6,26]", string(b))

	var got DataOffsets
	require.NoError(t, got.UnmarshalJSON([]byte("[1, 2]")))
	assert.Equal(t, DataOffsets{1, 2}, got)

	for _, v := range []string{"[]", "[1]", "[1, 2, 3]", `"x"`} {
		assert.Error(t, got.UnmarshalJSON([]byte(v)), v)
	}
}

func TestTensorSliceByDataOffsets(t *testing.T) {
	tm := TensorMap{
		"c": {Name: "c", DataOffsets: DataOffsets{20, 30}},
		"a": {Name: "a", DataOffsets: DataOffsets{0, 10}},
		"b": {Name: "b", DataOffsets: DataOffsets{10, 20}},
	}
	ts := tm.TensorSlice()
	require.Equal(t, 3, ts.Len())

	sort.Sort(TensorSliceByDataOffsets{ts})
	names := make([]string, ts.Len())
	for i, x := range ts {
		names[i] = x.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	ts.Swap(0, 2)
	assert.Equal(t, "c", ts[0].Name)

	assert.Nil(t, TensorMap{}.TensorSlice())
}
