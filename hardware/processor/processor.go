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

package processor

import (
	"github.com/jetsetilly/gospike/hardware/memory"
)

// Core is the instruction decoder/executor attached to a hart. It is not
// implemented by this project.
type Core interface {
	// Step executes one instruction at PC through the supplied MMU,
	// returning the next PC
	Step(pc uint64, mmu *MMU) (uint64, error)
}

// Processor is one hart of the simulated machine.
type Processor struct {
	// Index is the 0-based slot the hart occupies in the machine. HartID is
	// the externally visible identifier, which need not be the same
	Index  int
	HartID int

	// the ISA string the hart was configured with, eg. "RV64IMAFDC"
	ISA string

	// PC is meaningful only to the attached core but it lives here so that
	// the machine can apply a start address before the core runs
	PC uint64

	mmu  *MMU
	core Core

	halted bool
}

// NewProcessor is the preferred method of initialisation for the Processor
// type.
func NewProcessor(index int, hartID int, isa string, mem *memory.Memory) *Processor {
	return &Processor{
		Index:  index,
		HartID: hartID,
		ISA:    isa,
		mmu:    NewMMU(mem),
	}
}

// MMU gives access to the hart's memory unit, principally for tracer
// registration and for driving accesses from a debugger.
func (p *Processor) MMU() *MMU {
	return p.mmu
}

// AttachCore connects an instruction executor to the hart.
func (p *Processor) AttachCore(core Core) {
	p.core = core
}

// Halt stops the hart retiring instructions until Resume is called. Used by
// the debug module's haltreq/resumereq bits.
func (p *Processor) Halt() {
	p.halted = true
}

// Resume restarts a halted hart.
func (p *Processor) Resume() {
	p.halted = false
}

// Halted returns true if the hart is halted.
func (p *Processor) Halted() bool {
	return p.halted
}

// Step retires at most one instruction. A halted hart, or a hart with no
// core attached, retires nothing.
func (p *Processor) Step() error {
	if p.halted || p.core == nil {
		return nil
	}

	pc, err := p.core.Step(p.PC, p.mmu)
	if err != nil {
		return err
	}
	p.PC = pc

	return nil
}
