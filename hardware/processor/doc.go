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

// Package processor represents one hart of the simulated machine: its
// identity (slot index, hartid and ISA string) and its memory unit.
//
// The instruction decoder and executor is not part of this project. It is
// attached through the Core interface. A hart with no core attached is legal
// and simply retires nothing when stepped, which is all that is needed for
// driving the machine from a debugger or from a recorded access trace.
package processor
