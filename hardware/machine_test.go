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

package hardware_test

import (
	"testing"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware"
	"github.com/jetsetilly/gospike/hardware/memory/cache"
	"github.com/jetsetilly/gospike/test"
)

func TestConstructionErrors(t *testing.T) {
	cfg := hardware.NewConfig()
	cfg.NumHarts = 0
	_, err := hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, curated.Is(err, hardware.NumHartsError))

	cfg = hardware.NewConfig()
	cfg.NumHarts = 2
	cfg.HartIDs = []int{5, 5}
	cfg.Memory = "0x80000000:0x1000"
	_, err = hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, curated.Is(err, hardware.HartIDError))

	cfg = hardware.NewConfig()
	cfg.NumHarts = 2
	cfg.HartIDs = []int{0, 1, 2}
	cfg.Memory = "0x80000000:0x1000"
	_, err = hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, curated.Is(err, hardware.HartIDCountError))

	cfg = hardware.NewConfig()
	cfg.Memory = "0x80000000:0x1000"
	cfg.ICache = "63:4:64"
	_, err = hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, curated.Is(err, cache.PowerError))

	cfg = hardware.NewConfig()
	cfg.Memory = "0x80000000:0x1000"
	cfg.Extension = "hwacha"
	_, err = hardware.NewMachine(cfg)
	test.ExpectedFailure(t, err)
}

func TestHartAssembly(t *testing.T) {
	cfg := hardware.NewConfig()
	cfg.NumHarts = 2
	cfg.HartIDs = []int{4, 2}
	cfg.Memory = "0x80000000:0x1000"
	cfg.StartHalted = true

	m, err := hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, err)
	defer m.Close()

	test.Equate(t, len(m.Harts), 2)
	test.Equate(t, m.HartBySlot(0).HartID, 4)
	test.Equate(t, m.HartBySlot(1).HartID, 2)
	test.Equate(t, m.HartByID(2).Index, 1)
	if m.HartByID(3) != nil {
		t.Errorf("hartid 3 should not exist")
	}

	// harts honour the start halted flag and begin at the region base
	test.ExpectedSuccess(t, m.HartBySlot(0).Halted())
	test.Equate(t, m.HartBySlot(0).PC, uint64(0x80000000))

	// there is no transport unless one was configured
	if m.RBB != nil {
		t.Errorf("machine should not have a bitbang server")
	}
}

func TestStartPC(t *testing.T) {
	cfg := hardware.NewConfig()
	cfg.Memory = "0x80000000:0x2000"
	cfg.StartPC = 0x80001000

	m, err := hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, err)
	defer m.Close()

	test.Equate(t, m.HartBySlot(0).PC, uint64(0x80001000))

	// a system reset returns the hart to the entry point
	m.HartBySlot(0).PC = 0x80001234
	m.Reset()
	test.Equate(t, m.HartBySlot(0).PC, uint64(0x80001000))
}

func TestL2Wiring(t *testing.T) {
	cfg := hardware.NewConfig()
	cfg.Memory = "0x80000000:0x100000"
	cfg.ICache = "1:1:64"
	cfg.DCache = "1:1:64"
	cfg.L2 = "64:4:64"

	m, err := hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, err)
	defer m.Close()

	mmu := m.HartBySlot(0).MMU()

	// one fetch miss and one load miss. each reaches the L2 exactly once
	_, err = mmu.Fetch(0x80000000)
	test.ExpectedSuccess(t, err)
	_, err = mmu.Load(0x80000000, 8)
	test.ExpectedSuccess(t, err)
	test.Equate(t, m.IC.Accesses(), uint64(1))
	test.Equate(t, m.DC.Accesses(), uint64(1))
	test.Equate(t, m.L2.Accesses(), uint64(2))

	// L1 hits never reach the L2
	_, err = mmu.Fetch(0x80000000)
	test.ExpectedSuccess(t, err)
	test.Equate(t, m.L2.Accesses(), uint64(2))
}

// refCache is an independent LRU model for checking the cache simulator
// through a whole-machine trace.
type refCache struct {
	sets, ways, block uint64
	tags              []map[uint64]uint64 // per set: tag -> last use
	clock             uint64
	accesses, hits    uint64
}

func newRefCache(sets, ways, block uint64) *refCache {
	r := &refCache{sets: sets, ways: ways, block: block}
	for i := uint64(0); i < sets; i++ {
		r.tags = append(r.tags, make(map[uint64]uint64))
	}
	return r
}

func (r *refCache) access(addr uint64) {
	r.accesses++
	r.clock++

	blockAddr := addr / r.block
	set := r.tags[blockAddr%r.sets]
	tag := blockAddr / r.sets

	if _, ok := set[tag]; ok {
		r.hits++
		set[tag] = r.clock
		return
	}

	if uint64(len(set)) >= r.ways {
		var victim uint64
		oldest := r.clock + 1
		for t, used := range set {
			if used < oldest {
				oldest = used
				victim = t
			}
		}
		delete(set, victim)
	}
	set[tag] = r.clock
}

func TestTraceAgainstReference(t *testing.T) {
	cfg := hardware.NewConfig()
	cfg.NumHarts = 2
	cfg.Memory = "0x80000000:0x100000"
	cfg.ICache = "64:4:64"
	cfg.DCache = "64:4:64"

	m, err := hardware.NewMachine(cfg)
	test.ExpectedSuccess(t, err)
	defer m.Close()

	refIC := newRefCache(64, 4, 64)
	refDC := newRefCache(64, 4, 64)

	// a fixed trace with enough conflict to force evictions. both harts
	// feed the same caches
	for i := uint64(0); i < 5000; i++ {
		hart := m.HartBySlot(int(i % 2))

		fetch := uint64(0x80000000) + (i*4)%0x3000
		load := uint64(0x80010000) + (i*congruent(i))%0x8000

		_, err := hart.MMU().Fetch(fetch)
		test.ExpectedSuccess(t, err)
		refIC.access(fetch)

		_, err = hart.MMU().Load(load&^7, 8)
		test.ExpectedSuccess(t, err)
		refDC.access(load &^ 7)
	}

	test.Equate(t, m.IC.Accesses(), refIC.accesses)
	test.Equate(t, m.IC.Hits(), refIC.hits)
	test.Equate(t, m.DC.Accesses(), refDC.accesses)
	test.Equate(t, m.DC.Hits(), refDC.hits)
}

// a cheap deterministic scatter for trace generation.
func congruent(i uint64) uint64 {
	return (i*2654435761 + 1) % 977
}
