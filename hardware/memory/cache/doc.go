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

// Package cache models a set-associative cache for statistical purposes. The
// simulated machine is correct without it; the model exists to count hits
// and misses for a given access stream.
//
// Geometry is given as a "sets:ways:blockbytes" string, as in "64:4:64".
// Sets and block bytes must be powers of two. Replacement is least recently
// used.
//
// A cache can forward its misses to another cache acting as its miss
// handler, forming a multi-level hierarchy. The last cache in the chain is
// assumed to always hit against backing memory.
//
// The instruction, data and unified variants differ only in which part of
// the access stream they observe. The lookup logic is shared.
package cache
