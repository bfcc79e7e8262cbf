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

package jtag_test

import (
	"testing"

	"github.com/jetsetilly/gospike/debugger/jtag"
	"github.com/jetsetilly/gospike/test"
)

// stubModule is a DebugModule made of a bare register map.
type stubModule struct {
	regs   map[uint32]uint32
	resets int
}

func newStubModule() *stubModule {
	return &stubModule{regs: make(map[uint32]uint32)}
}

func (m *stubModule) Read(addr uint32) (uint32, bool) {
	v, ok := m.regs[addr]
	return v, ok
}

func (m *stubModule) Write(addr uint32, data uint32) bool {
	if addr >= 0x40 {
		return false
	}
	m.regs[addr] = data
	return true
}

func (m *stubModule) Reset() {
	m.resets++
}

// shiftIR latches an instruction, starting and ending in Run-Test/Idle.
func shiftIR(dtm *jtag.DTM, inst uint32) {
	dtm.Clock(1, 0) // Select-DR-Scan
	dtm.Clock(1, 0) // Select-IR-Scan
	dtm.Clock(0, 0) // Capture-IR
	dtm.Clock(0, 0) // Shift-IR

	for i := 4; i > 0; i-- {
		dtm.Clock(0, uint8(inst>>i)&1)
	}
	dtm.Clock(1, uint8(inst)&1) // last bit shifts on the way to Exit1-IR

	dtm.Clock(1, 0) // Update-IR
	dtm.Clock(0, 0) // Run-Test/Idle
}

// shiftDR shifts an n-bit value through the data register, returning the
// value shifted out. Starts and ends in Run-Test/Idle.
func shiftDR(dtm *jtag.DTM, v uint64, n int) uint64 {
	dtm.Clock(1, 0) // Select-DR-Scan
	dtm.Clock(0, 0) // Capture-DR
	dtm.Clock(0, 0) // Shift-DR

	var out uint64
	for i := n - 1; i > 0; i-- {
		out = out<<1 | uint64(dtm.Clock(0, uint8(v>>i)&1))
	}
	out = out<<1 | uint64(dtm.Clock(1, uint8(v)&1))

	dtm.Clock(1, 0) // Update-DR
	dtm.Clock(0, 0) // Run-Test/Idle

	return out
}

func TestResetEscape(t *testing.T) {
	dtm := jtag.NewDTM(newStubModule())
	test.Equate(t, dtm.State().String(), "Test-Logic-Reset")

	// walk into a scattering of states and check that five TMS-high clocks
	// always return to Test-Logic-Reset
	walks := [][]uint8{
		{},                 // Test-Logic-Reset itself
		{0},                // Run-Test/Idle
		{0, 1, 0, 0},       // Shift-DR
		{0, 1, 1, 0, 1, 0}, // Pause-IR
		{0, 1, 0, 1, 1},    // Update-DR
	}

	for _, walk := range walks {
		for _, tms := range walk {
			dtm.Clock(tms, 0)
		}
		for i := 0; i < 5; i++ {
			dtm.Clock(1, 0)
		}
		test.Equate(t, dtm.State().String(), "Test-Logic-Reset")
	}
}

func TestIDCode(t *testing.T) {
	dtm := jtag.NewDTM(newStubModule())
	dtm.Clock(0, 0) // Run-Test/Idle

	// IDCODE is the instruction selected by Test-Logic-Reset
	v := shiftDR(dtm, 0, 32)
	test.Equate(t, uint32(v), jtag.IDCode)
}

func TestDMIWrite(t *testing.T) {
	dm := newStubModule()
	dtm := jtag.NewDTM(dm)
	dtm.Clock(0, 0) // Run-Test/Idle

	shiftIR(dtm, jtag.InstDMI)

	// a 41-bit dmi request: 7 bits of address, 32 of data, 2 of op
	const addr = 0x10
	const data = 0x80000001
	shiftDR(dtm, uint64(addr)<<34|uint64(data)<<2|2, 41)

	test.Equate(t, dm.regs[addr], uint32(data))
}

func TestDMIRead(t *testing.T) {
	dm := newStubModule()
	dm.regs[0x11] = 0x00030382
	dtm := jtag.NewDTM(dm)
	dtm.Clock(0, 0) // Run-Test/Idle

	shiftIR(dtm, jtag.InstDMI)

	// the read is performed on Update-DR. its result is captured by the
	// next scan
	shiftDR(dtm, uint64(0x11)<<34|1, 41)
	v := shiftDR(dtm, 0, 41)

	test.Equate(t, uint32(v>>2), uint32(0x00030382))
	test.Equate(t, uint32(v)&3, uint32(0)) // op status: success
	test.Equate(t, uint32(v>>34), uint32(0x11))
}

func TestDMIStickyError(t *testing.T) {
	dm := newStubModule()
	dtm := jtag.NewDTM(dm)
	dtm.Clock(0, 0)

	shiftIR(dtm, jtag.InstDMI)

	// a read of a register the module does not implement fails and the
	// failure is sticky
	shiftDR(dtm, uint64(0x3f)<<34|1, 41)
	v := shiftDR(dtm, 0, 41)
	test.Equate(t, uint32(v)&3, uint32(2))

	// while sticky, successful-looking operations are ignored
	shiftDR(dtm, uint64(0x10)<<34|uint64(99)<<2|2, 41)
	if _, ok := dm.regs[0x10]; ok {
		t.Errorf("dmi write should have been ignored while the failure is sticky")
	}

	// dmireset through dtmcs clears the sticky failure
	shiftIR(dtm, jtag.InstDTMCS)
	shiftDR(dtm, 1<<16, 32)
	shiftIR(dtm, jtag.InstDMI)
	v = shiftDR(dtm, 0, 41)
	test.Equate(t, uint32(v)&3, uint32(0))
}

func TestTapReset(t *testing.T) {
	dm := newStubModule()
	dtm := jtag.NewDTM(dm)
	dtm.Clock(0, 0)
	shiftIR(dtm, jtag.InstDMI)

	// a transport-level reset returns to Test-Logic-Reset, reselects
	// IDCODE and resets the debug module
	dtm.Reset()
	test.Equate(t, dtm.State().String(), "Test-Logic-Reset")
	test.Equate(t, dm.resets, 1)

	dtm.Clock(0, 0)
	v := shiftDR(dtm, 0, 32)
	test.Equate(t, uint32(v), jtag.IDCode)
}
