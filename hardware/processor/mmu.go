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
	"github.com/jetsetilly/gospike/hardware/memory/memtracer"
)

// MMU is a hart's memory unit. All of the hart's fetches, loads and stores
// go through here so that registered tracers see every access, in the order
// the hart issued them.
type MMU struct {
	mem     *memory.Memory
	tracers []memtracer.Tracer
}

// NewMMU is the preferred method of initialisation for the MMU type.
func NewMMU(mem *memory.Memory) *MMU {
	return &MMU{mem: mem}
}

// RegisterTracer adds a tracer to the set notified of every access.
// Registration order is the notification order but has no semantic effect.
func (m *MMU) RegisterTracer(t memtracer.Tracer) {
	m.tracers = append(m.tracers, t)
}

// tracers are notified only after the access has resolved. a faulting access
// is never traced
func (m *MMU) notify(addr uint64, kind memtracer.AccessKind) {
	for _, t := range m.tracers {
		t.Notify(addr, kind)
	}
}

// Fetch a 32-bit instruction word from the address.
func (m *MMU) Fetch(addr uint64) (uint64, error) {
	v, err := m.mem.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	m.notify(addr, memtracer.Fetch)
	return v, nil
}

// Load a little-endian value of the given width from the address.
func (m *MMU) Load(addr uint64, width int) (uint64, error) {
	v, err := m.mem.Read(addr, width)
	if err != nil {
		return 0, err
	}
	m.notify(addr, memtracer.Load)
	return v, nil
}

// Store a little-endian value of the given width to the address.
func (m *MMU) Store(addr uint64, v uint64, width int) error {
	err := m.mem.Write(addr, v, width)
	if err != nil {
		return err
	}
	m.notify(addr, memtracer.Store)
	return nil
}
