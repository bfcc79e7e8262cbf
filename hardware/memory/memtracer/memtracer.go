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

// Package memtracer defines the contract between a hart's memory unit and
// anything that wants to observe the memory accesses it performs. The cache
// simulators in the cache package are the principal implementation.
//
// Tracers are observation hooks only. They are called after the memory unit
// has resolved the access and they can neither block nor fail it.
package memtracer

// AccessKind classifies a traced memory access.
type AccessKind int

// The three kinds of memory access a hart performs.
const (
	Fetch AccessKind = iota
	Load
	Store
)

func (k AccessKind) String() string {
	switch k {
	case Fetch:
		return "fetch"
	case Load:
		return "load"
	case Store:
		return "store"
	}

	return "undefined"
}

// Tracer implementations are notified of every completed memory access, in
// the order the owning hart issued them.
type Tracer interface {
	Notify(addr uint64, kind AccessKind)
}
