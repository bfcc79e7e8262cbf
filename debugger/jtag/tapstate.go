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

package jtag

// TapState is one of the sixteen states of the IEEE 1149.1 TAP controller.
type TapState int

// The sixteen TAP controller states. TestLogicReset is the initial state and
// is reachable from any state by five consecutive clocks with TMS high.
const (
	TestLogicReset TapState = iota
	RunTestIdle
	SelectDRScan
	CaptureDR
	ShiftDR
	Exit1DR
	PauseDR
	Exit2DR
	UpdateDR
	SelectIRScan
	CaptureIR
	ShiftIR
	Exit1IR
	PauseIR
	Exit2IR
	UpdateIR
)

func (s TapState) String() string {
	switch s {
	case TestLogicReset:
		return "Test-Logic-Reset"
	case RunTestIdle:
		return "Run-Test/Idle"
	case SelectDRScan:
		return "Select-DR-Scan"
	case CaptureDR:
		return "Capture-DR"
	case ShiftDR:
		return "Shift-DR"
	case Exit1DR:
		return "Exit1-DR"
	case PauseDR:
		return "Pause-DR"
	case Exit2DR:
		return "Exit2-DR"
	case UpdateDR:
		return "Update-DR"
	case SelectIRScan:
		return "Select-IR-Scan"
	case CaptureIR:
		return "Capture-IR"
	case ShiftIR:
		return "Shift-IR"
	case Exit1IR:
		return "Exit1-IR"
	case PauseIR:
		return "Pause-IR"
	case Exit2IR:
		return "Exit2-IR"
	case UpdateIR:
		return "Update-IR"
	}

	return "undefined"
}

// the standard TAP transition table. indexed by current state and the
// sampled TMS bit.
var tapTransition = [16][2]TapState{
	TestLogicReset: {RunTestIdle, TestLogicReset},
	RunTestIdle:    {RunTestIdle, SelectDRScan},
	SelectDRScan:   {CaptureDR, SelectIRScan},
	CaptureDR:      {ShiftDR, Exit1DR},
	ShiftDR:        {ShiftDR, Exit1DR},
	Exit1DR:        {PauseDR, UpdateDR},
	PauseDR:        {PauseDR, Exit2DR},
	Exit2DR:        {ShiftDR, UpdateDR},
	UpdateDR:       {RunTestIdle, SelectDRScan},
	SelectIRScan:   {CaptureIR, TestLogicReset},
	CaptureIR:      {ShiftIR, Exit1IR},
	ShiftIR:        {ShiftIR, Exit1IR},
	Exit1IR:        {PauseIR, UpdateIR},
	PauseIR:        {PauseIR, Exit2IR},
	Exit2IR:        {ShiftIR, UpdateIR},
	UpdateIR:       {RunTestIdle, SelectDRScan},
}
