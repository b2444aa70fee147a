// Package emailtest provides an in-process SMTP server for tests.
package emailtest

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
)

// Behavior scripts how the server answers
type Behavior struct {
	RejectAuth bool // answer AUTH with 535
	RejectData bool // answer the end of DATA with 554
	Silent     bool // accept connections but never greet
}

// Message is one accepted mail transaction
type Message struct {
	AuthUser string
	From     string
	To       []string
	Data     string
}

// Server is a minimal SMTP server on 127.0.0.1. It implements only the
// commands net/smtp issues for a PLAIN-authenticated send.
type Server struct {
	Host string
	Port int

	behavior Behavior
	ln       net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	accepted int
	messages []Message
	closed   bool
}

// NewServer starts a server that is shut down when the test ends
func NewServer(t testing.TB, behavior Behavior) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	addr := ln.Addr().(*net.TCPAddr)
	s := &Server{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		behavior: behavior,
		ln:       ln,
		conns:    make(map[net.Conn]struct{}),
	}

	s.wg.Add(1)
	go s.acceptLoop()

	t.Cleanup(s.Close)
	return s
}

// ClosedPort returns a local port nothing listens on
func ClosedPort(t testing.TB) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// Messages returns the transactions accepted so far
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Connections returns how many connections the server has accepted
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// Close stops the listener and drops open connections
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.accepted++
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.forget(conn)
			s.serve(conn)
		}()
	}
}

func (s *Server) forget(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Server) serve(conn net.Conn) {
	if s.behavior.Silent {
		_, _ = io.Copy(io.Discard, conn)
		return
	}

	r := bufio.NewReader(conn)
	reply := func(format string, args ...any) {
		_, _ = fmt.Fprintf(conn, format+"\r\n", args...)
	}

	reply("220 localhost Test SMTP Service Ready")

	var msg Message
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "EHLO"):
			reply("250-localhost Hello")
			reply("250-AUTH PLAIN")
			reply("250 OK")
		case strings.HasPrefix(upper, "HELO"):
			reply("250 localhost")
		case strings.HasPrefix(upper, "AUTH PLAIN"):
			msg.AuthUser = plainUser(strings.TrimSpace(line[len("AUTH PLAIN"):]))
			if s.behavior.RejectAuth {
				reply("535 5.7.8 Authentication credentials invalid")
				continue
			}
			reply("235 2.7.0 Authentication successful")
		case line == "*":
			reply("501 5.0.0 Authentication cancelled")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			msg.From = trimPath(line[len("MAIL FROM:"):])
			reply("250 OK")
		case strings.HasPrefix(upper, "RCPT TO:"):
			msg.To = append(msg.To, trimPath(line[len("RCPT TO:"):]))
			reply("250 OK")
		case upper == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			data, err := readData(r)
			if err != nil {
				return
			}
			if s.behavior.RejectData {
				reply("554 5.6.0 Message rejected")
				msg = Message{AuthUser: msg.AuthUser}
				continue
			}
			msg.Data = data
			s.mu.Lock()
			s.messages = append(s.messages, msg)
			s.mu.Unlock()
			msg = Message{AuthUser: msg.AuthUser}
			reply("250 OK: queued as 12345")
		case upper == "RSET":
			msg = Message{AuthUser: msg.AuthUser}
			reply("250 OK")
		case upper == "QUIT":
			reply("221 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func readData(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		if line == ".\r\n" || line == ".\n" {
			return b.String(), nil
		}
		b.WriteString(strings.TrimPrefix(line, "."))
	}
}

func trimPath(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i] // drop ESMTP parameters such as BODY=8BITMIME
	}
	return strings.Trim(s, "<>")
}

func plainUser(resp string) string {
	raw, err := base64.StdEncoding.DecodeString(resp)
	if err != nil {
		return ""
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}
