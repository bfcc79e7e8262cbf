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

// Package debug is the machine's debug module: the register file a debugger
// reaches through the debug transport. It implements the subset of the
// RISC-V debug specification's module registers needed to halt and resume
// harts and to stage data and program buffer words.
//
// Authentication, when required, is a deliberately small challenge-response
// scheme: reading authdata yields a 32-bit challenge and writing back the
// challenge XORed with the key authenticates the session. Until then every
// register other than dmstatus and authdata reads as zero and ignores
// writes.
package debug
