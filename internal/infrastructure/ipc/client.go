package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/panehost/internal/app/command"
)

// ErrRequestFailed wraps a response with ok=false.
var ErrRequestFailed = errors.New("request failed")

// Client talks to a Server. Every call opens its own connection.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient creates a client for the socket at path.
func NewClient(path string) *Client {
	if path == "" {
		path = DefaultSocketPath()
	}
	return &Client{path: path, timeout: 5 * time.Second}
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.path, err)
	}
	return conn, nil
}

// Call sends req and waits for its response. A missing ID is filled in.
func (c *Client) Call(ctx context.Context, req command.Request) (command.Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return command.Response{}, err
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return command.Response{}, err
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(append(data, '\n')); err != nil {
		return command.Response{}, fmt.Errorf("send request: %w", err)
	}

	line, err := bufio.NewReaderSize(conn, 64*1024).ReadBytes('\n')
	if err != nil {
		return command.Response{}, fmt.Errorf("read response: %w", err)
	}

	var resp command.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return command.Response{}, fmt.Errorf("decode response: %w", err)
	}
	if !resp.OK {
		return resp, fmt.Errorf("%w: %s (%s)", ErrRequestFailed, resp.Error, resp.Code)
	}
	return resp, nil
}

// Subscribe opens an event stream for name. The channel closes when ctx ends
// or the server goes away.
func (c *Client) Subscribe(ctx context.Context, name string) (<-chan StreamEvent, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	req, _ := json.Marshal(SubscribeRequest{ID: uuid.NewString(), Cmd: CmdSubscribe, Name: name})
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	if _, err := conn.Write(append(req, '\n')); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	reader := bufio.NewReaderSize(conn, 64*1024)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read subscribe ack: %w", err)
	}
	var ack command.Response
	if err := json.Unmarshal(line, &ack); err != nil || !ack.OK {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: subscribe %q: %s", ErrRequestFailed, name, ack.Error)
	}
	_ = conn.SetDeadline(time.Time{})

	out := make(chan StreamEvent, DefaultStreamBuffer)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()
	go func() {
		defer close(out)
		defer close(stop)
		defer conn.Close()
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				return
			}
			var ev StreamEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
