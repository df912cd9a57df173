// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package envconfig reads process configuration from environment variables.
package envconfig

import (
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"strconv"
	"strings"
)

// DefaultTileExtent is the tile side used when TILED_TILE_EXTENT is unset.
const DefaultTileExtent = 4

// TileExtent returns the side of the square tiles used when converting
// tensors to the tiled layout.
// Configurable via TILED_TILE_EXTENT; it must be a positive power of two.
// Default: 4
func TileExtent() int {
	n := Uint("TILED_TILE_EXTENT", DefaultTileExtent)()
	if n == 0 || bits.OnesCount(n) != 1 || n > 1<<16 {
		slog.Warn("tile extent must be a power of two, using default", "value", n, "default", DefaultTileExtent)
		return DefaultTileExtent
	}
	return int(n)
}

// LogLevel returns the log level.
// Configurable via TILED_DEBUG: a true boolean enables debug logging,
// an integer n sets the level to -4*n.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TILED_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Uint returns a function reading an unsigned integer variable,
// falling back to defaultValue when it is unset or invalid.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Var returns an environment variable stripped of leading and trailing
// quotes and spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// EnvVar describes a configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every configuration variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TILED_DEBUG":       {"TILED_DEBUG", LogLevel(), "Show additional debug information (e.g. TILED_DEBUG=1)"},
		"TILED_TILE_EXTENT": {"TILED_TILE_EXTENT", TileExtent(), fmt.Sprintf("Side of square tiles, a power of two (default %d)", DefaultTileExtent)},
	}
}

// Values returns every configuration variable formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
