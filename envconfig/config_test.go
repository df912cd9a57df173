// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envconfig

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileExtent(t *testing.T) {
	testCases := map[string]int{
		"":      4,
		"4":     4,
		"8":     8,
		"\"16\"": 16,
		" 2 ":   2,
		"1":     1,
		"0":     4,
		"3":     4,
		"-8":    4,
		"abc":   4,
	}
	for value, want := range testCases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("TILED_TILE_EXTENT", value)
			assert.Equal(t, want, TileExtent())
		})
	}
}

func TestLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"t":     slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
		"abc":   slog.LevelInfo,
	}
	for value, want := range testCases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("TILED_DEBUG", value)
			assert.Equal(t, want, LogLevel())
		})
	}
}

func TestValues(t *testing.T) {
	t.Setenv("TILED_TILE_EXTENT", "8")
	t.Setenv("TILED_DEBUG", "")

	vals := Values()
	assert.Equal(t, "8", vals["TILED_TILE_EXTENT"])
	assert.Equal(t, "INFO", vals["TILED_DEBUG"])
	assert.Len(t, AsMap(), 2)
}
