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

// Package memorymap turns a memory specification string into the list of
// physical memory regions for the simulated machine.
//
// Two forms of specification are accepted. A bare number is the legacy form
// and means that many MiB of memory at the architecture's default DRAM base:
//
//	"2048"
//
// The second form is a comma separated list of base:size pairs, each value
// a multiple of the 4KiB page:
//
//	"0x80000000:0x10000,0x81000000:0x2000"
//
// Regions are not required to be contiguous. Addresses that fall into a hole
// between regions fault at access time, not at build time.
package memorymap
