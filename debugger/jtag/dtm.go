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

// Package jtag emulates the JTAG debug transport module (DTM): the TAP
// controller state machine and the shift registers through which a debugger
// reaches the debug module, independent of any physical transport.
//
// DMI transactions are assembled bit by bit in the Shift-DR state and
// committed against the debug module when the controller passes through
// Update-DR with the DMI instruction selected.
package jtag

import (
	"github.com/jetsetilly/gospike/logger"
)

// DebugModule is the register file the DTM commits DMI transactions to. The
// ok return values report whether the module honoured the access.
type DebugModule interface {
	Read(addr uint32) (data uint32, ok bool)
	Write(addr uint32, data uint32) (ok bool)
	Reset()
}

// the DTM instructions. five bits of instruction register.
const (
	irLength = 5

	InstIDCode uint32 = 0x01
	InstDTMCS  uint32 = 0x10
	InstDMI    uint32 = 0x11
	InstBypass uint32 = 0x1f
)

// IDCode is the identity read back through the IDCODE instruction.
const IDCode uint32 = 0xdeadbeef

// number of DMI address bits.
const abits = 7

// dmi operation field values.
const (
	dmiNop   = 0
	dmiRead  = 1
	dmiWrite = 2

	// op status in a captured dmi register. 2 is the sticky failure value
	dmiOK     = 0
	dmiFailed = 2
)

// DTM is the debug transport module.
type DTM struct {
	dm DebugModule

	state TapState

	// the latched instruction and the instruction shift register
	ir      uint32
	irShift uint32

	// the data shift register and its current width. the width depends on
	// the latched instruction
	dr    uint64
	drLen int

	// result of the most recent DMI operation, captured into the dmi
	// register on Capture-DR
	lastAddr uint32
	lastData uint32

	// a failed DMI operation is sticky. cleared by dmireset in dtmcs or by
	// Test-Logic-Reset
	sticky bool
}

// NewDTM is the preferred method of initialisation for the DTM type.
func NewDTM(dm DebugModule) *DTM {
	dtm := &DTM{dm: dm}
	dtm.reset()
	return dtm
}

// State returns the current TAP controller state.
func (dtm *DTM) State() TapState {
	return dtm.state
}

// Reset puts the TAP controller into Test-Logic-Reset, as a TRST pin would,
// and resets the debug module.
func (dtm *DTM) Reset() {
	dtm.reset()
	dtm.dm.Reset()
}

// reset to Test-Logic-Reset. shift registers cleared and IDCODE selected.
func (dtm *DTM) reset() {
	dtm.state = TestLogicReset
	dtm.ir = InstIDCode
	dtm.irShift = 0
	dtm.dr = 0
	dtm.drLen = 1
	dtm.sticky = false
}

func drMask(length int) uint64 {
	if length >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<length - 1
}

// Clock applies one TAP clock edge with the given TMS and TDI values,
// returning the sampled TDO bit.
//
// In the two shift states every call shifts TDI into the low end of the
// active register and returns the register's previous high bit as TDO. This
// includes the edge that leaves the shift state.
func (dtm *DTM) Clock(tms uint8, tdi uint8) uint8 {
	var tdo uint8

	switch dtm.state {
	case ShiftDR:
		tdo = uint8(dtm.dr>>(dtm.drLen-1)) & 1
		dtm.dr = (dtm.dr<<1 | uint64(tdi&1)) & drMask(dtm.drLen)

	case ShiftIR:
		tdo = uint8(dtm.irShift>>(irLength-1)) & 1
		dtm.irShift = (dtm.irShift<<1 | uint32(tdi&1)) & (1<<irLength - 1)
	}

	dtm.state = tapTransition[dtm.state][tms&1]

	switch dtm.state {
	case TestLogicReset:
		dtm.reset()

	case CaptureIR:
		dtm.irShift = dtm.ir

	case CaptureDR:
		dtm.captureDR()

	case UpdateIR:
		dtm.ir = dtm.irShift & (1<<irLength - 1)

	case UpdateDR:
		dtm.updateDR()
	}

	return tdo
}

// captureDR loads the data shift register from the register selected by the
// latched instruction.
func (dtm *DTM) captureDR() {
	switch dtm.ir {
	case InstIDCode:
		dtm.dr = uint64(IDCode)
		dtm.drLen = 32

	case InstDTMCS:
		// abits and version, plus the status of the last DMI operation
		v := uint64(abits)<<4 | 1
		if dtm.sticky {
			v |= dmiFailed << 10
		}
		dtm.dr = v
		dtm.drLen = 32

	case InstDMI:
		op := uint64(dmiOK)
		if dtm.sticky {
			op = dmiFailed
		}
		dtm.dr = uint64(dtm.lastAddr)<<34 | uint64(dtm.lastData)<<2 | op
		dtm.drLen = 34 + abits

	default:
		dtm.dr = 0
		dtm.drLen = 1
	}
}

// updateDR commits the shifted data register.
func (dtm *DTM) updateDR() {
	switch dtm.ir {
	case InstDTMCS:
		// dmireset clears the sticky failure
		if dtm.dr&(1<<16) != 0 {
			dtm.sticky = false
		}

	case InstDMI:
		dtm.commitDMI()
	}
}

func (dtm *DTM) commitDMI() {
	op := uint32(dtm.dr & 0x3)
	data := uint32(dtm.dr >> 2)
	addr := uint32(dtm.dr>>34) & (1<<abits - 1)

	// while a failure is sticky, further operations are ignored until the
	// debugger acknowledges it with dmireset
	if dtm.sticky {
		return
	}

	dtm.lastAddr = addr

	switch op {
	case dmiNop:
		// deliberately nothing

	case dmiRead:
		data, ok := dtm.dm.Read(addr)
		dtm.lastData = data
		if !ok {
			dtm.sticky = true
			logger.Logf("jtag", "dmi read of unimplemented register (%#02x)", addr)
		}

	case dmiWrite:
		if ok := dtm.dm.Write(addr, data); !ok {
			dtm.sticky = true
			logger.Logf("jtag", "dmi write of unimplemented register (%#02x)", addr)
		}

	default:
		dtm.sticky = true
	}
}
