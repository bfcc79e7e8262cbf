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

package cache_test

import (
	"testing"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/memory/cache"
	"github.com/jetsetilly/gospike/hardware/memory/memtracer"
	"github.com/jetsetilly/gospike/test"
)

func TestGeometry(t *testing.T) {
	// sets and block bytes must be powers of two. ways is unconstrained
	for _, spec := range []string{"64:4:64", "1:1:8", "256:3:32", "2:7:4096"} {
		_, err := cache.NewCache(spec, "T$")
		test.ExpectedSuccess(t, err)
	}

	for _, spec := range []string{"63:4:64", "64:4:63", "0:1:8", "64:1:0"} {
		_, err := cache.NewCache(spec, "T$")
		test.ExpectedSuccess(t, curated.Is(err, cache.PowerError))
	}

	for _, spec := range []string{"", "64:4", "64:4:64:2", "64:fish:64", "64:0:64"} {
		_, err := cache.NewCache(spec, "T$")
		test.ExpectedSuccess(t, curated.Is(err, cache.SpecError))
	}
}

func TestColdMissThenHit(t *testing.T) {
	// one set, one way, 64 byte blocks
	c, err := cache.NewCache("1:1:64", "T$")
	test.ExpectedSuccess(t, err)

	test.ExpectedFailure(t, c.Access(0x80000000, false))
	test.ExpectedSuccess(t, c.Access(0x80000000, false))
	test.ExpectedSuccess(t, c.Access(0x8000003f, false))

	// a different block evicts the only line
	test.ExpectedFailure(t, c.Access(0x80000040, false))
	test.ExpectedFailure(t, c.Access(0x80000000, false))

	test.Equate(t, c.Accesses(), uint64(5))
	test.Equate(t, c.Hits(), uint64(2))
	test.Equate(t, c.Misses(), uint64(3))
}

func TestLRUEviction(t *testing.T) {
	// one set, two ways. three distinct blocks compete for the set
	c, err := cache.NewCache("1:2:64", "T$")
	test.ExpectedSuccess(t, err)

	const (
		addrA = 0x80000000
		addrB = 0x80000040
		addrC = 0x80000080
	)

	test.ExpectedFailure(t, c.Access(addrA, false))
	test.ExpectedFailure(t, c.Access(addrB, false))
	test.ExpectedSuccess(t, c.Access(addrA, false))

	// B is now the least recently used line so C must evict it
	test.ExpectedFailure(t, c.Access(addrC, false))
	test.ExpectedSuccess(t, c.Access(addrA, false))
	test.ExpectedFailure(t, c.Access(addrB, false))
}

func TestMissHandlerChain(t *testing.T) {
	l1, err := cache.NewCache("1:1:64", "L1$")
	test.ExpectedSuccess(t, err)
	l2, err := cache.NewCache("64:4:64", "L2$")
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, l1.SetMissHandler(l2))

	// every L1 miss reaches the L2 exactly once
	l1.Access(0x80000000, false)
	test.Equate(t, l2.Accesses(), uint64(1))

	// an L1 hit never touches the L2
	l1.Access(0x80000000, false)
	test.Equate(t, l2.Accesses(), uint64(1))

	// evict and return. two more L1 misses but the second L2 access for
	// the same block is an L2 hit
	l1.Access(0x80000040, false)
	l1.Access(0x80000000, false)
	test.Equate(t, l2.Accesses(), uint64(3))
	test.Equate(t, l2.Hits(), uint64(1))
}

func TestChainCycle(t *testing.T) {
	l1, _ := cache.NewCache("1:1:64", "L1$")
	l2, _ := cache.NewCache("64:4:64", "L2$")

	test.ExpectedSuccess(t, l1.SetMissHandler(l2))

	// the L2 cannot take the L1 as its own miss handler
	err := l2.SetMissHandler(l1)
	test.ExpectedSuccess(t, curated.Is(err, cache.ChainError))

	// nor can a cache handle its own misses
	err = l1.SetMissHandler(l1)
	test.ExpectedSuccess(t, curated.Is(err, cache.ChainError))
}

func TestRoleFiltering(t *testing.T) {
	ic, err := cache.NewInstructionCache("64:4:64")
	test.ExpectedSuccess(t, err)
	dc, err := cache.NewDataCache("64:4:64")
	test.ExpectedSuccess(t, err)

	var tracers []memtracer.Tracer
	tracers = append(tracers, ic, dc)

	for _, tr := range tracers {
		tr.Notify(0x80000000, memtracer.Fetch)
		tr.Notify(0x80000000, memtracer.Load)
		tr.Notify(0x80000000, memtracer.Store)
	}

	test.Equate(t, ic.Accesses(), uint64(1))
	test.Equate(t, dc.Accesses(), uint64(2))
}
