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

package bitbang

import (
	"fmt"
	"net"
	"time"

	"github.com/jetsetilly/gospike/curated"
	"github.com/jetsetilly/gospike/debugger/jtag"
	"github.com/jetsetilly/gospike/logger"
)

// error pattern for server construction.
const ListenError = "bitbang: %v"

// how long Service() is prepared to wait on the listening or connected
// socket. long enough to catch pending work, short enough not to stall the
// run loop.
const pollDeadline = 500 * time.Microsecond

// Server relays remote bitbang commands to the TAP emulator.
type Server struct {
	dtm *jtag.DTM

	// called when the client asserts the srst line. may be nil
	sysReset func()

	listener *net.TCPListener
	conn     *net.TCPConn

	// current line state as set by the client
	tck uint8
	tms uint8
	tdi uint8

	// tdo as sampled at the most recent rising tck edge
	tdo uint8

	buf [256]byte
}

// NewServer is the preferred method of initialisation for the Server type.
// A port of zero selects an ephemeral port, which Addr() reveals. sysReset
// is called when the debugging client asserts the system reset line.
func NewServer(port uint16, dtm *jtag.DTM, sysReset func()) (*Server, error) {
	addr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, curated.Errorf(ListenError, err)
	}

	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, curated.Errorf(ListenError, err)
	}

	srv := &Server{
		dtm:      dtm,
		sysReset: sysReset,
		listener: listener,
	}

	logger.Logf("bitbang", "listening on %s", listener.Addr())

	return srv, nil
}

// Addr returns the address the server is listening on.
func (srv *Server) Addr() net.Addr {
	return srv.listener.Addr()
}

// Close the server and any active session.
func (srv *Server) Close() {
	srv.drop()
	_ = srv.listener.Close()
}

// drop the active session, returning the server to its listening state.
func (srv *Server) drop() {
	if srv.conn != nil {
		_ = srv.conn.Close()
		srv.conn = nil
		logger.Log("bitbang", "client disconnected")
	}
}

// Service the socket: accept a waiting client or process any bytes the
// connected client has sent. Never blocks for longer than the polling
// deadline. Meant to be called repeatedly from the run loop.
func (srv *Server) Service() {
	if srv.conn == nil {
		srv.accept()
		return
	}

	_ = srv.conn.SetReadDeadline(time.Now().Add(pollDeadline))

	n, err := srv.conn.Read(srv.buf[:])
	for i := 0; i < n; i++ {
		srv.process(srv.buf[i])

		// process() may have ended the session
		if srv.conn == nil {
			return
		}
	}

	if err != nil {
		if e, ok := err.(net.Error); ok && e.Timeout() {
			return
		}

		// any other error, EOF included, ends the session
		srv.drop()
	}
}

func (srv *Server) accept() {
	_ = srv.listener.SetDeadline(time.Now().Add(pollDeadline))

	conn, err := srv.listener.AcceptTCP()
	if err != nil {
		return
	}

	// latency matters more than throughput on a bit-at-a-time protocol
	_ = conn.SetNoDelay(true)

	srv.conn = conn
	logger.Logf("bitbang", "client connected from %s", conn.RemoteAddr())
}

// process one command byte, replying where the command asks for it.
func (srv *Server) process(b byte) {
	switch {
	case b == 'B' || b == 'b':
		// blink. nothing to blink

	case b >= '0' && b <= '7':
		v := b - '0'
		tck := (v >> 2) & 1
		srv.tms = (v >> 1) & 1
		srv.tdi = v & 1

		// the TAP clocks on the rising edge of tck
		if srv.tck == 0 && tck == 1 {
			srv.tdo = srv.dtm.Clock(srv.tms, srv.tdi)
		}
		srv.tck = tck

	case b == 'R':
		srv.reply('0' + srv.tdo)

	case b >= 'r' && b <= 'u':
		v := b - 'r'
		trst := (v >> 1) & 1
		srst := v & 1

		if trst == 1 {
			srv.dtm.Reset()
			logger.Log("bitbang", "tap reset")
		}
		if srst == 1 && srv.sysReset != nil {
			srv.sysReset()
			logger.Log("bitbang", "system reset")
		}

	case b == 'Q':
		srv.drop()

	default:
		// a malformed byte is a session problem, not a simulator problem
		logger.Logf("bitbang", "unknown command byte (%#02x)", b)
	}
}

func (srv *Server) reply(b byte) {
	if srv.conn == nil {
		return
	}
	if _, err := srv.conn.Write([]byte{b}); err != nil {
		srv.drop()
	}
}
