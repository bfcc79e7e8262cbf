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

package memorymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jetsetilly/gospike/curated"
)

// PageSize is the unit of alignment for explicitly specified regions.
const PageSize = 4096

// DRAMBase is where the legacy single-size form places its one region.
const DRAMBase = uint64(0x80000000)

// DefaultSpec is used when no memory specification is given.
const DefaultSpec = "2048"

// Region is one block of physical memory. Base and Size are in bytes.
type Region struct {
	Base uint64
	Size uint64
}

func (r Region) String() string {
	return fmt.Sprintf("%#08x:%#x", r.Base, r.Size)
}

// Memtop returns the first address after the region.
func (r Region) Memtop() uint64 {
	return r.Base + r.Size
}

// Contains checks whether an address falls inside the region.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.Base && addr < r.Base+r.Size
}

// error patterns for the Parse() function.
const (
	ParseError    = "memorymap: malformed memory spec (%s)"
	AlignError    = "memorymap: region %s is not 4KiB aligned"
	OverflowError = "memorymap: memory size would overflow (%s MiB)"
	OverlapError  = "memorymap: regions %s and %s overlap"
)

// Parse a memory specification string into a list of regions, sorted by base
// address. See the package documentation for the two accepted forms of the
// specification.
func Parse(spec string) ([]Region, error) {
	// legacy form. a single number of MiB at the default DRAM base
	if mib, err := strconv.ParseUint(spec, 0, 64); err == nil {
		size := mib << 20
		if size>>20 != mib {
			return nil, curated.Errorf(OverflowError, spec)
		}
		return []Region{{Base: DRAMBase, Size: size}}, nil
	}

	var regions []Region

	for _, pair := range strings.Split(spec, ",") {
		p := strings.SplitN(pair, ":", 2)
		if len(p) != 2 {
			return nil, curated.Errorf(ParseError, pair)
		}

		base, err := strconv.ParseUint(p[0], 0, 64)
		if err != nil {
			return nil, curated.Errorf(ParseError, pair)
		}

		size, err := strconv.ParseUint(p[1], 0, 64)
		if err != nil {
			return nil, curated.Errorf(ParseError, pair)
		}

		if (base|size)%PageSize != 0 {
			return nil, curated.Errorf(AlignError, pair)
		}

		regions = append(regions, Region{Base: base, Size: size})
	}

	if len(regions) == 0 {
		return nil, curated.Errorf(ParseError, spec)
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Base < regions[j].Base
	})

	// overlapping regions are a configuration error, not an overlay
	for i := 1; i < len(regions); i++ {
		if regions[i].Base < regions[i-1].Memtop() {
			return nil, curated.Errorf(OverlapError, regions[i-1], regions[i])
		}
	}

	return regions, nil
}
