// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	lru "github.com/hashicorp/golang-lru/v2"

	mu "github.com/avdva/posit/internal/mathutil"
)

// maxTableBits is the widest format decoded through a lookup table.
const maxTableBits = 12

type tableKey struct {
	nbits, es int
}

// decodeTable holds the unpacked form of every pattern of a format.
type decodeTable struct {
	entries []unpacked
}

// tables is shared by all formats with the same geometry.
var tables = mustCache(32)

func mustCache(size int) *lru.Cache[tableKey, *decodeTable] {
	c, err := lru.New[tableKey, *decodeTable](size)
	if err != nil {
		panic(err)
	}
	return c
}

func tableFor(l layout) *decodeTable {
	key := tableKey{nbits: l.nbits, es: l.es}
	if t, found := tables.Get(key); found {
		return t
	}
	t := &decodeTable{entries: make([]unpacked, 1<<uint(l.nbits))}
	for i := range t.entries {
		t.entries[i] = l.decode(mu.U128(uint64(i)))
	}
	tables.Add(key, t)
	return t
}
