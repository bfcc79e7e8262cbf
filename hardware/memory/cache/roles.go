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

package cache

import (
	"github.com/jetsetilly/gospike/hardware/memory/memtracer"
)

// InstructionCache observes only the fetch part of the access stream.
type InstructionCache struct {
	*Cache
}

// NewInstructionCache is the preferred method of initialisation for the
// InstructionCache type.
func NewInstructionCache(spec string) (*InstructionCache, error) {
	c, err := NewCache(spec, "I$")
	if err != nil {
		return nil, err
	}
	return &InstructionCache{Cache: c}, nil
}

// Notify implements the memtracer.Tracer interface.
func (c *InstructionCache) Notify(addr uint64, kind memtracer.AccessKind) {
	if kind == memtracer.Fetch {
		c.Access(addr, false)
	}
}

// DataCache observes only the load and store parts of the access stream.
type DataCache struct {
	*Cache
}

// NewDataCache is the preferred method of initialisation for the DataCache
// type.
func NewDataCache(spec string) (*DataCache, error) {
	c, err := NewCache(spec, "D$")
	if err != nil {
		return nil, err
	}
	return &DataCache{Cache: c}, nil
}

// Notify implements the memtracer.Tracer interface.
func (c *DataCache) Notify(addr uint64, kind memtracer.AccessKind) {
	switch kind {
	case memtracer.Load:
		c.Access(addr, false)
	case memtracer.Store:
		c.Access(addr, true)
	}
}
