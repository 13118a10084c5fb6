package relay

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/band_control/internal/band"
	"github.com/relabs-tech/band_control/internal/gesture"
)

// startTestServer runs a relay server on an ephemeral port and tears it
// down with the test.
func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("server did not shut down")
		}
	})

	return srv, ln.Addr().String()
}

func TestServerEmptyBeforeFirstCommand(t *testing.T) {
	_, addr := startTestServer(t)

	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	cmd, err := c.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if cmd != gesture.None {
		t.Fatalf("poll before any command = %q, want None", cmd)
	}
}

func TestServerLastWriteWins(t *testing.T) {
	srv, addr := startTestServer(t)

	srv.SetCommand(gesture.Forward)
	srv.SetCommand(gesture.Left)

	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	cmd, err := c.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if cmd != gesture.Left {
		t.Fatalf("poll = %q, want %q (the overwritten forward must never surface)", cmd, gesture.Left)
	}
}

func TestServerMalformedRequestGetsEmptyResponse(t *testing.T) {
	srv, addr := startTestServer(t)
	srv.SetCommand(gesture.Back)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if _, err := fmt.Fprintf(conn, "bogus_request\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(line) != "" {
		t.Fatalf("malformed request got %q, want empty response", strings.TrimSpace(line))
	}

	// The session must survive the bad request.
	if _, err := fmt.Fprintf(conn, "%s\n", RequestToken); err != nil {
		t.Fatalf("write after bad request: %v", err)
	}
	line, err = reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read after bad request: %v", err)
	}
	if strings.TrimSpace(line) != "back" {
		t.Fatalf("get_cmd after bad request = %q, want %q", strings.TrimSpace(line), "back")
	}
}

func TestServerSessionIsolation(t *testing.T) {
	srv, addr := startTestServer(t)
	srv.SetCommand(gesture.Right)

	first, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	second, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()

	// Kill the first session mid-stream; the second must be unaffected.
	first.Close()

	cmd, err := second.Poll()
	if err != nil {
		t.Fatalf("poll on surviving session: %v", err)
	}
	if cmd != gesture.Right {
		t.Fatalf("poll = %q, want %q", cmd, gesture.Right)
	}
}

func TestServerConcurrentSessions(t *testing.T) {
	srv, addr := startTestServer(t)
	srv.SetCommand(gesture.Forward)

	for i := 0; i < 3; i++ {
		c, err := Dial(addr)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer c.Close()

		cmd, err := c.Poll()
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if cmd != gesture.Forward {
			t.Fatalf("poll %d = %q, want %q", i, cmd, gesture.Forward)
		}
	}
}

// TestServerEndToEnd drives the whole chain: frames through the
// pipeline into the command cell, polled over a real socket.
func TestServerEndToEnd(t *testing.T) {
	srv, addr := startTestServer(t)

	frames := make(chan band.Frame, 3)
	frames <- band.Frame{Kind: band.FrameEuler, Values: []float64{0, 0, 0}}
	frames <- band.Frame{Kind: band.FrameEuler, Values: []float64{0, 45, 0}}
	frames <- band.Frame{Kind: band.FrameEuler, Values: []float64{0, 0, 25}}
	close(frames)

	pipe := gesture.Pipeline{}
	err := pipe.Run(context.Background(), frames, func(_ band.Sample, cmd gesture.Command) {
		srv.SetCommand(cmd)
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	cmd, err := c.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if cmd != gesture.Left {
		t.Fatalf("poll = %q, want %q", cmd, gesture.Left)
	}
}
