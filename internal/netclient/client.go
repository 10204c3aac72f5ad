// Package netclient owns the TCP connection to the game server. It reads raw
// bytes on a background goroutine and delivers them as valid UTF-8 string
// chunks on a channel; commands go the other way with the protocol's CRLF
// terminator.
package netclient

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

const readBufSize = 8192

// Client is a connected game session.
type Client struct {
	conn   net.Conn
	logger *log.Logger

	chunks chan string
	errs   chan error

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to addr (host:port) and starts the reader goroutine.
func Dial(ctx context.Context, addr string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{
		conn:   conn,
		logger: logger,
		chunks: make(chan string, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	logger.Info("connected", "addr", addr)
	return c, nil
}

// Chunks returns the channel of received text chunks. It is closed when the
// connection ends; Err then reports why.
func (c *Client) Chunks() <-chan string { return c.chunks }

// Err returns the error that ended the read loop, or nil on clean close.
func (c *Client) Err() error {
	select {
	case err := <-c.errs:
		return err
	default:
		return nil
	}
}

// readLoop reads raw bytes and forwards them as string chunks. A read may end
// mid-way through a multi-byte UTF-8 sequence, so trailing incomplete bytes
// are held back and prepended to the next read: every delivered chunk is
// valid UTF-8 on its own.
func (c *Client) readLoop() {
	defer close(c.chunks)

	buf := make([]byte, readBufSize)
	var partial []byte
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			data := append(partial, buf[:n]...)
			cut := completeUTF8Prefix(data)
			if cut > 0 {
				select {
				case c.chunks <- string(data[:cut]):
				case <-c.done:
					return
				}
			}
			partial = append(partial[:0], data[cut:]...)
		}
		if err != nil {
			select {
			case <-c.done:
			default:
				c.errs <- err
				c.logger.Debug("read loop ended", "err", err)
			}
			return
		}
	}
}

// completeUTF8Prefix returns the length of the longest prefix of data that
// does not end inside a multi-byte sequence.
func completeUTF8Prefix(data []byte) int {
	end := len(data)
	for i := end - 1; i >= 0 && end-i < utf8.UTFMax; i-- {
		b := data[i]
		if b < utf8.RuneSelf {
			break
		}
		if b&0xC0 == 0xC0 { // leading byte of a multi-byte sequence
			if !utf8.FullRune(data[i:end]) {
				return i
			}
			break
		}
	}
	return end
}

// Send writes one command line, appending CRLF.
func (c *Client) Send(command string) error {
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if _, err := c.conn.Write([]byte(command + "\r\n")); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return nil
}

// Close shuts the connection down and unblocks the reader.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
