// Package relay exposes the latest classified command to polling
// consumers over a small newline-framed TCP protocol.
//
// A client sends the literal token "get_cmd" terminated by a newline and
// receives one line back: the lowercase command name, or an empty line
// when nothing has been classified yet. The server never pushes
// unsolicited data.
package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/relabs-tech/band_control/internal/gesture"
)

// RequestToken is the only request the relay understands.
const RequestToken = "get_cmd"

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 1024

// Server owns the shared latest-command cell. Exactly one producer
// writes it; any number of sessions read it. Last write wins: there is
// no queue and the producer never waits, so a briefly-produced command
// can legitimately be missed by a slow poller.
type Server struct {
	mu      sync.RWMutex
	current gesture.Command
}

// NewServer returns a relay server with an empty command cell.
func NewServer() *Server {
	return &Server{}
}

// SetCommand overwrites the latest command. Called by the producer on
// every classified sample.
func (s *Server) SetCommand(cmd gesture.Command) {
	s.mu.Lock()
	s.current = cmd
	s.mu.Unlock()
}

// Current returns the most recently produced command (None before the
// first classification).
func (s *Server) Current() gesture.Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Serve accepts relay sessions on ln until the context is cancelled.
// Each session runs in its own goroutine; a session error ends that
// session only.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// Unblock Accept when the context goes.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("relay accept: %w", err)
		}

		log.Printf("relay: session from %s", conn.RemoteAddr())
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleSession(ctx, conn)
		}()
	}
}

// handleSession serves one client: read a request line, answer it,
// repeat. Requests and responses are strictly paired, no pipelining.
func (s *Server) handleSession(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-sessionDone:
		}
	}()

	reader := bufio.NewReaderSize(conn, maxRequestBytes)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("relay: session %s closed: %v", conn.RemoteAddr(), err)
			}
			return
		}

		// Unrecognized requests get an empty response rather than a
		// closed connection.
		resp := ""
		if strings.TrimSpace(line) == RequestToken {
			resp = string(s.Current())
		}

		if _, err := fmt.Fprintf(conn, "%s\n", resp); err != nil {
			log.Printf("relay: session %s write error: %v", conn.RemoteAddr(), err)
			return
		}
	}
}
