package relay

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/relabs-tech/band_control/internal/gesture"
)

// Client is one relay session from the consumer side. It is not safe
// for concurrent use; the polling loop owns it.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial opens a relay session to addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("relay dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, maxRequestBytes),
	}, nil
}

// Poll sends one get_cmd request and blocks for the response. An empty
// response decodes as None.
func (c *Client) Poll() (gesture.Command, error) {
	if _, err := fmt.Fprintf(c.conn, "%s\n", RequestToken); err != nil {
		return gesture.None, fmt.Errorf("relay request: %w", err)
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return gesture.None, fmt.Errorf("relay response: %w", err)
	}

	return gesture.ParseCommand(strings.TrimSpace(line)), nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Close()
}
