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

package hardware

import (
	"github.com/jetsetilly/gospike/hardware/memory/memorymap"
)

// DefaultISA is the ISA string used when none is configured.
const DefaultISA = "RV64IMAFDC"

// NoStartPC is the Config.StartPC value meaning "no override": harts start
// at the base of the first memory region.
const NoStartPC = ^uint64(0)

// DebugConfig parameterises the debug module.
type DebugConfig struct {
	// number of program buffer words
	ProgSize int

	// widest system bus access the debug module will claim to support.
	// zero disables system bus access entirely
	SysBusBits int

	// gate all debug module access behind challenge-response
	// authentication
	RequireAuth bool
}

// Config is everything needed to build a Machine. It is treated as
// immutable once passed to NewMachine(). No other part of the machine reads
// configuration from anywhere else.
type Config struct {
	ISA      string
	NumHarts int

	// externally visible hart identifiers. empty means hartids equal the
	// hart's slot index. if not empty, one id per hart
	HartIDs []int

	// memory specification in either of the forms memorymap.Parse accepts
	Memory string

	StartHalted bool
	StartPC     uint64

	// cache geometries as "sets:ways:blockbytes". empty means the cache
	// is not modelled
	ICache string
	DCache string
	L2     string

	// listen for a remote bitbang debugger. a port of zero with UseRBB
	// set selects an ephemeral port
	UseRBB  bool
	RBBPort uint16

	// name of the RoCC extension to attach to every hart. empty means
	// none
	Extension string

	Debug DebugConfig
}

// NewConfig is the preferred method of initialisation for the Config type.
// One RV64IMAFDC hart, 2GiB of memory at the DRAM base, no caches and no
// debug transport.
func NewConfig() Config {
	return Config{
		ISA:      DefaultISA,
		NumHarts: 1,
		Memory:   memorymap.DefaultSpec,
		StartPC:  NoStartPC,
		Debug: DebugConfig{
			ProgSize: 2,
		},
	}
}
