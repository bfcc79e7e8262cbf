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

// Package memory owns the physical memory of the simulated machine. The
// address space is sparse. Accesses that land between the configured regions
// return an access fault for the hart's fault handling path to deal with.
package memory

import (
	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/memory/memorymap"
)

// AccessFault is the error pattern returned for an access to an unmapped
// address.
const AccessFault = "memory: access fault at %#08x"

// error pattern for an access width the memory cannot service.
const WidthError = "memory: unsupported access width (%d)"

// bank is one memory region and its backing storage.
type bank struct {
	region memorymap.Region
	data   []byte
}

// Memory is the assembled physical memory of the machine.
type Memory struct {
	banks []bank
}

// NewMemory is the preferred method of initialisation for the Memory type.
// The regions should come from memorymap.Parse() and so are already aligned,
// sorted and non-overlapping.
func NewMemory(regions []memorymap.Region) *Memory {
	mem := &Memory{
		banks: make([]bank, 0, len(regions)),
	}

	for _, r := range regions {
		mem.banks = append(mem.banks, bank{
			region: r,
			data:   make([]byte, r.Size),
		})
	}

	return mem
}

// Regions returns the regions the memory was assembled from.
func (mem *Memory) Regions() []memorymap.Region {
	regions := make([]memorymap.Region, 0, len(mem.banks))
	for _, b := range mem.banks {
		regions = append(regions, b.region)
	}
	return regions
}

// resolve an address to the bank that contains it. the full width of the
// access must fit inside the one bank.
func (mem *Memory) resolve(addr uint64, width int) ([]byte, error) {
	for i := range mem.banks {
		r := mem.banks[i].region
		if r.Contains(addr) && addr+uint64(width) <= r.Memtop() {
			o := addr - r.Base
			return mem.banks[i].data[o : o+uint64(width)], nil
		}
	}

	return nil, curated.Errorf(AccessFault, addr)
}

func validWidth(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// Read a little-endian value of the given width (1, 2, 4 or 8 bytes) from
// the address.
func (mem *Memory) Read(addr uint64, width int) (uint64, error) {
	if !validWidth(width) {
		return 0, curated.Errorf(WidthError, width)
	}

	d, err := mem.resolve(addr, width)
	if err != nil {
		return 0, err
	}

	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(d[i])
	}

	return v, nil
}

// Write a little-endian value of the given width (1, 2, 4 or 8 bytes) to the
// address.
func (mem *Memory) Write(addr uint64, v uint64, width int) error {
	if !validWidth(width) {
		return curated.Errorf(WidthError, width)
	}

	d, err := mem.resolve(addr, width)
	if err != nil {
		return err
	}

	for i := 0; i < width; i++ {
		d[i] = byte(v >> (8 * i))
	}

	return nil
}
