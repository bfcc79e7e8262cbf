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

// Package hardware assembles the simulated machine: the hart set, physical
// memory, the optional cache hierarchy, the debug module and the remote
// debug transport. Nothing else in the project depends on this package; it
// is the composition root.
//
// Construction is all-or-nothing. A configuration error returns before any
// part of the machine can be observed half built.
package hardware
