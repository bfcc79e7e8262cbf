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

// Package bitbang serves the remote bitbang protocol over TCP, relaying
// JTAG signal transitions between a remote debugger (OpenOCD's
// remote_bitbang driver, typically) and the TAP emulator, as if the
// debugger were toggling physical pins.
//
// The command alphabet is the documented remote_bitbang convention. Bytes
// '0' to '7' set the tck, tms and tdi lines (the low three bits of the
// byte minus '0'); a rising tck edge clocks the TAP. 'R' samples tdo and
// answers with a single byte, '0' or '1'. 'r' to 'u' drive the trst and
// srst lines. 'Q' ends the session. 'B' and 'b' (the blink commands) are
// accepted and ignored.
//
// One debugging client is served at a time. All socket work happens in
// Service(), which never blocks for longer than its polling deadline and
// is meant to be called from the machine's run loop.
package bitbang
