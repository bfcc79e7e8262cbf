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

package bitbang_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jetsetilly/gospike/debugger/bitbang"
	"github.com/jetsetilly/gospike/debugger/jtag"
	"github.com/jetsetilly/gospike/test"
)

// nullModule is an empty DebugModule. the TAP machinery above the module is
// what these tests exercise.
type nullModule struct {
	resets int
}

func (m *nullModule) Read(addr uint32) (uint32, bool) { return 0, true }

func (m *nullModule) Write(addr uint32, data uint32) bool { return true }

func (m *nullModule) Reset() { m.resets++ }

// session wraps a server and a connected client for the duration of a test.
type session struct {
	t   *testing.T
	srv *bitbang.Server
	cli net.Conn
}

func newSession(t *testing.T, dtm *jtag.DTM, sysReset func()) *session {
	t.Helper()

	srv, err := bitbang.NewServer(0, dtm, sysReset)
	test.ExpectedSuccess(t, err)
	t.Cleanup(srv.Close)

	s := &session{t: t, srv: srv}
	s.connect()
	return s
}

func (s *session) connect() {
	s.t.Helper()

	port := s.srv.Addr().(*net.TCPAddr).Port
	var err error
	s.cli, err = net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	test.ExpectedSuccess(s.t, err)

	// the server picks the connection up during Service(). a handful of
	// calls is plenty. the dial has already completed
	for i := 0; i < 10; i++ {
		s.srv.Service()
	}
}

// exchange writes the command bytes and services the server until the
// expected number of response bytes has been read back.
func (s *session) exchange(commands []byte, responses int) []byte {
	s.t.Helper()

	_, err := s.cli.Write(commands)
	test.ExpectedSuccess(s.t, err)

	recv := make([]byte, 0, responses)
	buf := make([]byte, 64)

	deadline := time.Now().Add(2 * time.Second)
	for len(recv) < responses && time.Now().Before(deadline) {
		s.srv.Service()

		_ = s.cli.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, _ := s.cli.Read(buf)
		recv = append(recv, buf[:n]...)
	}

	test.Equate(s.t, len(recv), responses)
	return recv
}

// edge encodes the three command bytes that step tck through a full clock
// cycle and sample tdo.
func edge(tms, tdi uint8) []byte {
	low := '0' + tms<<1 + tdi
	high := low + 4
	return []byte{byte(low), byte(high), 'R'}
}

func TestAgainstReferenceTAP(t *testing.T) {
	dtm := jtag.NewDTM(&nullModule{})
	ref := jtag.NewDTM(&nullModule{})

	s := newSession(t, dtm, nil)

	// a walk that latches the DMI instruction and shifts a few data bits:
	// enough to visit every class of TAP state
	walk := []struct{ tms, tdi uint8 }{
		{0, 0}, // Run-Test/Idle
		{1, 0}, {1, 0}, {0, 0}, {0, 0}, // to Shift-IR
		{0, 1}, {0, 0}, {0, 0}, {0, 0}, {1, 1}, // shift 10001
		{1, 0}, {0, 0}, // latch, idle
		{1, 0}, {0, 0}, {0, 0}, // to Shift-DR
		{0, 1}, {0, 1}, {0, 0}, {0, 1}, {1, 1}, // shift data bits
		{1, 0}, {0, 0}, // update, idle
	}

	var commands []byte
	var expected []byte
	for _, w := range walk {
		commands = append(commands, edge(w.tms, w.tdi)...)
		expected = append(expected, '0'+ref.Clock(w.tms, w.tdi))
	}

	recv := s.exchange(commands, len(expected))
	test.Equate(t, string(recv), string(expected))

	// both TAPs end in the same state
	test.Equate(t, dtm.State().String(), ref.State().String())
}

func TestResetCommands(t *testing.T) {
	dtm := jtag.NewDTM(&nullModule{})

	resets := 0
	s := newSession(t, dtm, func() { resets++ })

	// move away from Test-Logic-Reset
	s.exchange(edge(0, 0), 1)
	test.Equate(t, dtm.State().String(), "Run-Test/Idle")

	// 'u' asserts both trst and srst. no response is expected so follow
	// with a sampling command to know it has been processed
	s.exchange([]byte{'u', 'R'}, 1)
	test.Equate(t, dtm.State().String(), "Test-Logic-Reset")
	test.Equate(t, resets, 1)

	// unknown bytes are skipped without killing the session
	s.exchange([]byte{'z', 'R'}, 1)
}

func TestDisconnect(t *testing.T) {
	dtm := jtag.NewDTM(&nullModule{})
	s := newSession(t, dtm, nil)

	// 'Q' ends the session. the server returns to listening and accepts
	// a fresh client
	_, err := s.cli.Write([]byte{'Q'})
	test.ExpectedSuccess(t, err)

	for i := 0; i < 10; i++ {
		s.srv.Service()
	}

	s.connect()
	recv := s.exchange(edge(1, 0), 1)
	test.Equate(t, len(recv), 1)
}
