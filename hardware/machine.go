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
	"io"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/debugger/bitbang"
	"github.com/jetsetilly/gospike/debugger/jtag"
	"github.com/jetsetilly/gospike/hardware/debug"
	"github.com/jetsetilly/gospike/hardware/extension"
	"github.com/jetsetilly/gospike/hardware/memory"
	"github.com/jetsetilly/gospike/hardware/memory/cache"
	"github.com/jetsetilly/gospike/hardware/memory/memorymap"
	"github.com/jetsetilly/gospike/hardware/processor"
	"github.com/jetsetilly/gospike/logger"
)

// error patterns for machine construction.
const (
	NumHartsError    = "machine: invalid number of harts (%d)"
	HartIDCountError = "machine: %d hartids supplied for %d harts"
	HartIDError      = "machine: duplicate hartid (%d)"
)

// Machine is the main container for the simulated components of the
// RISC-V machine.
type Machine struct {
	cfg Config

	Harts []*processor.Processor
	Mem   *memory.Memory

	DM  *debug.Module
	DTM *jtag.DTM

	// RBB is nil unless a remote bitbang transport was configured
	RBB *bitbang.Server

	// caches are nil unless configured
	IC *cache.InstructionCache
	DC *cache.DataCache
	L2 *cache.Cache

	// hartid to hart slot index
	hartIndex map[int]int

	// base of the first memory region. the default start pc
	entry uint64
}

// NewMachine creates a Machine and everything associated with the hardware.
// A configuration error leaves nothing half built.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.NumHarts < 1 {
		return nil, curated.Errorf(NumHartsError, cfg.NumHarts)
	}

	m := &Machine{
		cfg:       cfg,
		hartIndex: make(map[int]int),
	}

	spec := cfg.Memory
	if spec == "" {
		spec = memorymap.DefaultSpec
	}

	regions, err := memorymap.Parse(spec)
	if err != nil {
		return nil, err
	}
	m.Mem = memory.NewMemory(regions)

	m.entry = regions[0].Base
	if cfg.StartPC != NoStartPC {
		m.entry = cfg.StartPC
	}

	if len(cfg.HartIDs) > 0 && len(cfg.HartIDs) != cfg.NumHarts {
		return nil, curated.Errorf(HartIDCountError, len(cfg.HartIDs), cfg.NumHarts)
	}

	for i := 0; i < cfg.NumHarts; i++ {
		hartID := i
		if len(cfg.HartIDs) > 0 {
			hartID = cfg.HartIDs[i]
		}
		if _, ok := m.hartIndex[hartID]; ok {
			return nil, curated.Errorf(HartIDError, hartID)
		}
		m.hartIndex[hartID] = i

		p := processor.NewProcessor(i, hartID, cfg.ISA, m.Mem)
		p.PC = m.entry
		if cfg.StartHalted {
			p.Halt()
		}
		m.Harts = append(m.Harts, p)
	}

	m.DM, err = debug.NewModule(cfg.Debug.ProgSize, cfg.Debug.SysBusBits, cfg.Debug.RequireAuth, m.Harts)
	if err != nil {
		return nil, err
	}

	if err := m.buildCaches(); err != nil {
		return nil, err
	}

	if cfg.Extension != "" {
		f, err := extension.Find(cfg.Extension)
		if err != nil {
			return nil, err
		}

		// extensions are independent per hart. one instance each
		for _, p := range m.Harts {
			f().Attach(p)
		}
	}

	m.DTM = jtag.NewDTM(m.DM)

	if cfg.UseRBB {
		m.RBB, err = bitbang.NewServer(cfg.RBBPort, m.DTM, m.Reset)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// the cache hierarchy is assembled strictly bottom up: the L2, if any, is
// built before the L1s that chain to it.
func (m *Machine) buildCaches() error {
	var err error

	if m.cfg.L2 != "" {
		m.L2, err = cache.NewCache(m.cfg.L2, "L2$")
		if err != nil {
			return err
		}
	}

	if m.cfg.ICache != "" {
		m.IC, err = cache.NewInstructionCache(m.cfg.ICache)
		if err != nil {
			return err
		}
		if m.L2 != nil {
			if err := m.IC.SetMissHandler(m.L2); err != nil {
				return err
			}
		}
	}

	if m.cfg.DCache != "" {
		m.DC, err = cache.NewDataCache(m.cfg.DCache)
		if err != nil {
			return err
		}
		if m.L2 != nil {
			if err := m.DC.SetMissHandler(m.L2); err != nil {
				return err
			}
		}
	}

	for _, p := range m.Harts {
		if m.IC != nil {
			p.MMU().RegisterTracer(m.IC)
		}
		if m.DC != nil {
			p.MMU().RegisterTracer(m.DC)
		}
	}

	return nil
}

// HartBySlot returns the hart in the given 0-based slot.
func (m *Machine) HartBySlot(i int) *processor.Processor {
	if i < 0 || i >= len(m.Harts) {
		return nil
	}
	return m.Harts[i]
}

// HartByID returns the hart with the given externally visible hartid.
func (m *Machine) HartByID(hartID int) *processor.Processor {
	i, ok := m.hartIndex[hartID]
	if !ok {
		return nil
	}
	return m.Harts[i]
}

// Reset returns every hart to the entry point and to its initial run/halt
// state. Wired to the debug transport's system reset line.
func (m *Machine) Reset() {
	for _, p := range m.Harts {
		p.PC = m.entry
		if m.cfg.StartHalted {
			p.Halt()
		} else {
			p.Resume()
		}
	}
	logger.Log("machine", "system reset")
}

// Close releases the machine's resources, logging cache statistics on the
// way out. The machine must not be used afterwards.
func (m *Machine) Close() {
	for _, c := range m.caches() {
		logger.Log("cache", c.String())
	}

	if m.RBB != nil {
		m.RBB.Close()
	}
}

// WriteStatistics writes the cache statistics to the io.Writer.
func (m *Machine) WriteStatistics(output io.Writer) {
	for _, c := range m.caches() {
		io.WriteString(output, c.String())
		io.WriteString(output, "\n")
	}
}

func (m *Machine) caches() []*cache.Cache {
	var l []*cache.Cache
	if m.IC != nil {
		l = append(l, m.IC.Cache)
	}
	if m.DC != nil {
		l = append(l, m.DC.Cache)
	}
	if m.L2 != nil {
		l = append(l, m.L2)
	}
	return l
}
