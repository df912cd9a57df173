// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"sync"

	"github.com/nlpodyssey/tiled/envconfig"
)

var defaultTileExtent = sync.OnceValue(envconfig.TileExtent)

// DefaultTileExtent returns the process-wide tile side used by ToTiled.
//
// The value is read from the environment (see envconfig.TileExtent) the
// first time it is needed, and stays the same for the rest of the process
// lifetime. Tiled tensors record their own tile side, so they are never
// affected by this value once created.
func DefaultTileExtent() int {
	return defaultTileExtent()
}
