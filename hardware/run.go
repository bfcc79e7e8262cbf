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
	"fmt"

	"github.com/jetsetilly/gospike/curated"
)

// State describes what the run loop should do next. Returned by the
// continueCheck function supplied to Run().
type State int

// valid State values.
const (
	Running State = iota
	Paused
	Ending
)

// PowerOff is the error a core returns when the simulated program requests
// an exit. Run() absorbs it and returns the carried status.
type PowerOff struct {
	Status int
}

func (e PowerOff) Error() string {
	return fmt.Sprintf("powered off: exit status %d", e.Status)
}

// a full continue check on every iteration of the run loop can be
// expensive. the run loop uses PerformanceBrake to service the debug
// transport only periodically and continueCheck() implementations can use
// it the same way.
const PerformanceBrake = 100

// number of instructions each hart retires before the next hart gets a
// turn. harts are logically interleaved, not parallel.
const hartQuantum = 100

// Run drives hart execution as quickly as possible, servicing the debug
// transport as it goes. The continueCheck function is consulted after every
// round of hart quanta; a nil continueCheck means run until a hart's core
// ends the simulation.
//
// The returned int is the exit status reported by the simulated program.
func (m *Machine) Run(continueCheck func() (State, error)) (int, error) {
	if continueCheck == nil {
		continueCheck = func() (State, error) { return Running, nil }
	}

	state := Running
	serviceBrake := 0

	for state != Ending {
		switch state {
		case Running:
			for _, p := range m.Harts {
				for i := 0; i < hartQuantum; i++ {
					if err := p.Step(); err != nil {
						if po, ok := err.(PowerOff); ok {
							return po.Status, nil
						}
						return 0, err
					}
				}
			}
		case Paused:
			// nothing to do but service the transport below
		default:
			return 0, curated.Errorf("machine: unsupported run state (%d)", state)
		}

		// the debug transport is polled between bounded units of hart
		// execution. cheap enough to matter, expensive enough to brake
		if m.RBB != nil {
			serviceBrake++
			if serviceBrake >= PerformanceBrake {
				serviceBrake = 0
				m.RBB.Service()
			}
		}

		var err error
		state, err = continueCheck()
		if err != nil {
			return 0, err
		}
	}

	return 0, nil
}
