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

package debug

import (
	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/hardware/processor"
	"github.com/jetsetilly/gospike/logger"
)

// register addresses in the debug module interface (DMI) address space.
const (
	RegData0      uint32 = 0x04
	RegDMControl  uint32 = 0x10
	RegDMStatus   uint32 = 0x11
	RegHartInfo   uint32 = 0x12
	RegAbstractCS uint32 = 0x16
	RegCommand    uint32 = 0x17
	RegProgBuf0   uint32 = 0x20
	RegAuthData   uint32 = 0x30
	RegSBCS       uint32 = 0x38
)

// dmcontrol bits the module reacts to.
const (
	ctlHaltReq   = 1 << 31
	ctlResumeReq = 1 << 30
	ctlDMActive  = 1 << 0
)

// the key for the challenge-response authentication scheme. see the package
// documentation
const authKey = 0x76543210

// error patterns for module construction.
const (
	ProgSizeError = "debug: progsize out of range (%d)"
	SysBusError   = "debug: system bus width out of range (%d)"
)

// maximum program buffer words allowed by the debug specification.
const maxProgSize = 16

// Module is the on-chip debug module.
type Module struct {
	harts []*processor.Processor

	progSize    int
	sysBusBits  int
	requireAuth bool

	dmactive      bool
	authenticated bool
	challenge     uint32

	// hart currently selected by dmcontrol.hartsel. an out of range
	// selection is remembered but selects nothing
	hartsel int

	data0   uint32
	progBuf []uint32
	resumed bool
}

// NewModule is the preferred method of initialisation for the Module type.
// progSize is the number of program buffer words. sysBusBits of zero
// disables system bus access and with it the sbcs register.
func NewModule(progSize int, sysBusBits int, requireAuth bool, harts []*processor.Processor) (*Module, error) {
	if progSize < 0 || progSize > maxProgSize {
		return nil, curated.Errorf(ProgSizeError, progSize)
	}
	if sysBusBits < 0 || sysBusBits > 128 {
		return nil, curated.Errorf(SysBusError, sysBusBits)
	}

	dm := &Module{
		harts:       harts,
		progSize:    progSize,
		sysBusBits:  sysBusBits,
		requireAuth: requireAuth,
		progBuf:     make([]uint32, progSize),
	}
	dm.Reset()

	return dm, nil
}

// Reset returns the module to its power-on state. Triggered by writing zero
// to dmcontrol.dmactive and by the debug transport's reset command.
func (dm *Module) Reset() {
	dm.dmactive = true
	dm.authenticated = !dm.requireAuth
	dm.hartsel = 0
	dm.data0 = 0
	dm.resumed = false
	for i := range dm.progBuf {
		dm.progBuf[i] = 0
	}
	dm.newChallenge()
}

// the challenge walks a xorshift sequence. deterministic, which is all the
// scheme asks for
func (dm *Module) newChallenge() {
	if dm.challenge == 0 {
		dm.challenge = 0x5eedc0de
	}
	dm.challenge ^= dm.challenge << 13
	dm.challenge ^= dm.challenge >> 17
	dm.challenge ^= dm.challenge << 5
}

func (dm *Module) selected() *processor.Processor {
	if dm.hartsel < 0 || dm.hartsel >= len(dm.harts) {
		return nil
	}
	return dm.harts[dm.hartsel]
}

// gated reports whether the address is blocked by the authentication gate.
func (dm *Module) gated(addr uint32) bool {
	if dm.authenticated {
		return false
	}
	return addr != RegDMStatus && addr != RegAuthData
}

// Read a debug module register. The second return value is false if the
// register does not exist.
func (dm *Module) Read(addr uint32) (uint32, bool) {
	if dm.gated(addr) {
		return 0, true
	}

	switch {
	case addr == RegData0:
		return dm.data0, true

	case addr == RegDMControl:
		var v uint32
		if dm.dmactive {
			v |= ctlDMActive
		}
		v |= uint32(dm.hartsel) << 16
		return v, true

	case addr == RegDMStatus:
		return dm.dmstatus(), true

	case addr == RegHartInfo:
		// one scratch register, no direct data access
		return 1 << 20, true

	case addr == RegAbstractCS:
		return uint32(dm.progSize)<<24 | 1, true

	case addr == RegAuthData:
		return dm.challenge, true

	case addr >= RegProgBuf0 && addr < RegProgBuf0+uint32(dm.progSize):
		return dm.progBuf[addr-RegProgBuf0], true

	case addr == RegSBCS && dm.sysBusBits > 0:
		return dm.sbcs(), true
	}

	return 0, false
}

// Write a debug module register. The return value is false if the register
// does not exist or is read-only.
func (dm *Module) Write(addr uint32, data uint32) bool {
	if dm.gated(addr) {
		return true
	}

	switch {
	case addr == RegData0:
		dm.data0 = data
		return true

	case addr == RegDMControl:
		if data&ctlDMActive == 0 {
			dm.Reset()
			return true
		}
		dm.hartsel = int(data>>16) & 0x3ff
		if p := dm.selected(); p != nil {
			if data&ctlHaltReq != 0 {
				p.Halt()
				logger.Logf("debug module", "hart %d halted", p.HartID)
			}
			if data&ctlResumeReq != 0 {
				p.Resume()
				dm.resumed = true
				logger.Logf("debug module", "hart %d resumed", p.HartID)
			}
		}
		return true

	case addr == RegCommand:
		// abstract commands are not implemented by this module
		logger.Logf("debug module", "abstract command ignored (%#08x)", data)
		return true

	case addr == RegAuthData:
		if data == dm.challenge^authKey {
			dm.authenticated = true
			logger.Log("debug module", "debugger authenticated")
		}
		dm.newChallenge()
		return true

	case addr >= RegProgBuf0 && addr < RegProgBuf0+uint32(dm.progSize):
		dm.progBuf[addr-RegProgBuf0] = data
		return true
	}

	return false
}

// dmstatus is assembled from the state of the selected hart.
func (dm *Module) dmstatus() uint32 {
	// version 2 means v0.13 of the debug specification
	var v uint32 = 2

	if dm.authenticated {
		v |= 1 << 7
	} else {
		return v
	}

	if p := dm.selected(); p != nil {
		if p.Halted() {
			v |= 1<<8 | 1<<9 // anyhalted, allhalted
		} else {
			v |= 1<<10 | 1<<11 // anyrunning, allrunning
		}
	}

	if dm.resumed {
		v |= 1<<16 | 1<<17 // anyresumeack, allresumeack
	}

	return v
}

// sbcs describes the system bus master. only present when the module was
// constructed with a non-zero bus width.
func (dm *Module) sbcs() uint32 {
	// sbversion 1
	var v uint32 = 1 << 29

	v |= uint32(dm.sysBusBits&0x7f) << 5

	// one sbaccess bit per supported width, 8 bits up to the configured
	// maximum
	for w, bit := 8, 0; w <= dm.sysBusBits && bit < 5; w, bit = w*2, bit+1 {
		v |= 1 << bit
	}

	return v
}

// Authenticated returns true when the authentication gate is open.
func (dm *Module) Authenticated() bool {
	return dm.authenticated
}
