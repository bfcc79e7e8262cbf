// This file is part of GoSpike.
//
// GoSpike is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GoSpike is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GoSpike.  If not, see <https://www.gnu.org/licenses/>.

package cache

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/memory/memtracer"
)

// error patterns for cache construction.
const (
	SpecError  = "cache: %s: malformed cache spec (%s)"
	PowerError = "cache: %s: sets and block bytes must be powers of two (%s)"
	ChainError = "cache: %s: miss handler chain would form a cycle"
)

// line is one block's worth of presence information. the cache never holds
// data, only tags.
type line struct {
	tag      uint64
	valid    bool
	lastUsed uint64
}

// Cache simulates one level of a set-associative cache.
type Cache struct {
	label string

	sets       uint64
	ways       uint64
	blockBytes uint64

	// offsetBits is log2(blockBytes). indexBits is log2(sets). the tag is
	// whatever remains above those two fields
	offsetBits int
	indexBits  int

	// sets*ways lines. the set at index i occupies lines[i*ways:(i+1)*ways]
	lines []line

	// monotonic counter for LRU replacement. bumped on every access
	clock uint64

	missHandler *Cache

	accesses uint64
	hits     uint64
}

// NewCache is the preferred method of initialisation for the Cache type. The
// spec string gives the geometry as "sets:ways:blockbytes". The label names
// the cache in statistics and error messages.
func NewCache(spec string, label string) (*Cache, error) {
	p := strings.Split(spec, ":")
	if len(p) != 3 {
		return nil, curated.Errorf(SpecError, label, spec)
	}

	sets, err := strconv.ParseUint(p[0], 0, 64)
	if err != nil {
		return nil, curated.Errorf(SpecError, label, spec)
	}

	ways, err := strconv.ParseUint(p[1], 0, 64)
	if err != nil {
		return nil, curated.Errorf(SpecError, label, spec)
	}

	blockBytes, err := strconv.ParseUint(p[2], 0, 64)
	if err != nil {
		return nil, curated.Errorf(SpecError, label, spec)
	}

	if ways == 0 {
		return nil, curated.Errorf(SpecError, label, spec)
	}

	// ways has no power-of-two constraint. sets and block bytes do
	if !isPowerOfTwo(sets) || !isPowerOfTwo(blockBytes) {
		return nil, curated.Errorf(PowerError, label, spec)
	}

	return &Cache{
		label:      label,
		sets:       sets,
		ways:       ways,
		blockBytes: blockBytes,
		offsetBits: bits.TrailingZeros64(blockBytes),
		indexBits:  bits.TrailingZeros64(sets),
		lines:      make([]line, sets*ways),
	}, nil
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// SetMissHandler chains the cache to a next level cache that is consulted on
// every miss. The chain is checked so that a cache can never become its own
// eventual miss handler.
func (c *Cache) SetMissHandler(next *Cache) error {
	for n := next; n != nil; n = n.missHandler {
		if n == c {
			return curated.Errorf(ChainError, c.label)
		}
	}
	c.missHandler = next
	return nil
}

// Access looks up the address and returns true on a hit. On a miss the least
// recently used line in the addressed set is replaced and, if a miss handler
// is attached, the access is forwarded to it.
//
// Access cannot fail. Every address is acceptable input.
func (c *Cache) Access(addr uint64, write bool) bool {
	c.accesses++
	c.clock++

	index := (addr >> c.offsetBits) & (c.sets - 1)
	tag := addr >> (c.offsetBits + c.indexBits)

	set := c.lines[index*c.ways : (index+1)*c.ways]

	for i := range set {
		if set[i].valid && set[i].tag == tag {
			c.hits++
			set[i].lastUsed = c.clock
			return true
		}
	}

	// miss. find the LRU victim. an invalid line has a zero lastUsed value
	// and so is always preferred. ties resolve to the lowest way
	victim := 0
	for i := 1; i < len(set); i++ {
		if set[i].lastUsed < set[victim].lastUsed {
			victim = i
		}
	}

	set[victim] = line{tag: tag, valid: true, lastUsed: c.clock}

	if c.missHandler != nil {
		c.missHandler.Access(addr&^(c.blockBytes-1), write)
	}

	return false
}

// Label returns the name the cache was constructed with.
func (c *Cache) Label() string {
	return c.label
}

// Accesses returns the number of lookups the cache has performed.
func (c *Cache) Accesses() uint64 {
	return c.accesses
}

// Hits returns the number of lookups that found their block resident.
func (c *Cache) Hits() uint64 {
	return c.hits
}

// Misses returns the number of lookups that did not find their block.
func (c *Cache) Misses() uint64 {
	return c.accesses - c.hits
}

func (c *Cache) String() string {
	rate := 0.0
	if c.accesses > 0 {
		rate = float64(c.accesses-c.hits) / float64(c.accesses) * 100
	}
	return fmt.Sprintf("%s accesses: %d hits: %d miss rate: %.3f%%",
		c.label, c.accesses, c.hits, rate)
}

// Notify implements the memtracer.Tracer interface. A bare Cache observes
// the whole access stream, making it a unified cache. The instruction and
// data variants filter the stream first.
func (c *Cache) Notify(addr uint64, kind memtracer.AccessKind) {
	c.Access(addr, kind == memtracer.Store)
}
