package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/logging"
)

var (
	// ErrAlreadyRunning is returned by Start when another server answers on the socket.
	ErrAlreadyRunning = errors.New("control socket already in use")
	// ErrPeerRejected is returned when a peer runs under a different uid.
	ErrPeerRejected = errors.New("peer rejected")
)

const (
	DefaultStreamBuffer = 256
	writeTimeout        = time.Second
	socketPerm          = 0o600
	socketDirPerm       = 0o700
)

// Dispatcher answers one command envelope.
type Dispatcher interface {
	DispatchJSON(ctx context.Context, data []byte) []byte
}

// EventSource is the hub side of a subscription.
type EventSource interface {
	Subscribe(window string, handler eventbus.Handler) string
	Unsubscribe(id string) bool
}

// Options configures a Server.
type Options struct {
	SocketPath string
	// StreamBuffer is the per-subscriber queue length. Events are dropped
	// for that subscriber when it is full.
	StreamBuffer int
}

// Server accepts control connections.
type Server struct {
	opts     Options
	dispatch Dispatcher
	events   EventSource
	logger   zerolog.Logger
	ctx      context.Context

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	dropped atomic.Uint64
}

// NewServer creates a server. Call Start to listen.
func NewServer(ctx context.Context, opts Options, dispatch Dispatcher, events EventSource) *Server {
	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath()
	}
	if opts.StreamBuffer <= 0 {
		opts.StreamBuffer = DefaultStreamBuffer
	}
	logger := logging.FromContext(ctx).With().Str("component", "ipc").Logger()
	return &Server{
		opts:     opts,
		dispatch: dispatch,
		events:   events,
		logger:   logger,
		ctx:      logging.WithContext(ctx, logger),
		conns:    make(map[net.Conn]struct{}),
		done:     make(chan struct{}),
	}
}

// SocketPath returns the listening path.
func (s *Server) SocketPath() string {
	return s.opts.SocketPath
}

// Dropped returns how many stream events were discarded for slow subscribers.
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// Start listens on the socket and accepts connections in the background.
// A stale socket file is replaced; a live one is left alone.
func (s *Server) Start() error {
	path := s.opts.SocketPath
	if err := os.MkdirAll(filepath.Dir(path), socketDirPerm); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if probe, dialErr := net.DialTimeout("unix", path, writeTimeout); dialErr == nil {
			_ = probe.Close()
			return fmt.Errorf("%w: %s", ErrAlreadyRunning, path)
		}
		_ = os.Remove(path)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(path, socketPerm); err != nil {
		_ = listener.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(listener)

	s.logger.Info().Str("path", path).Msg("control socket listening")
	return nil
}

// Close stops accepting, closes every connection and removes the socket
// file if this server created it.
func (s *Server) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		listening := s.listener != nil
		if listening {
			err = s.listener.Close()
		}
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.mu.Unlock()

		s.wg.Wait()
		// Never remove a socket another instance owns.
		if listening {
			_ = os.Remove(s.opts.SocketPath)
		}
		s.logger.Debug().Msg("control socket closed")
	})
	return err
}

// ConnCount returns the number of open connections.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Debug().Err(err).Msg("accept failed")
			continue
		}

		if err := checkPeer(conn); err != nil {
			s.logger.Warn().Err(err).Msg("rejecting control connection")
			_ = conn.Close()
			continue
		}

		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	w := &lineWriter{conn: conn}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var head envelopeHead
		if err := json.Unmarshal(line, &head); err == nil && head.Cmd == CmdSubscribe {
			s.stream(conn, scanner, w, head)
			return
		}

		resp := s.dispatch.DispatchJSON(s.ctx, line)
		if err := w.write(resp); err != nil {
			s.logger.Debug().Err(err).Msg("write response failed")
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug().Err(err).Msg("control connection read failed")
	}
}

// stream serves events to a subscribed connection until the peer hangs up
// or the server closes.
func (s *Server) stream(conn net.Conn, scanner *bufio.Scanner, w *lineWriter, head envelopeHead) {
	name := head.Name
	if name == "" {
		name = SubscribeAll
	}

	queue := make(chan eventbus.Event, s.opts.StreamBuffer)
	var closed atomic.Bool
	id := s.events.Subscribe(name, func(ev eventbus.Event) {
		if closed.Load() {
			return
		}
		select {
		case queue <- ev:
		default:
			s.dropped.Add(1)
		}
	})
	defer func() {
		closed.Store(true)
		s.events.Unsubscribe(id)
	}()

	ack, _ := json.Marshal(command.Response{
		ID:     head.ID,
		OK:     true,
		Result: SubscribeResult{Subscription: id, Name: name},
	})
	if err := w.write(ack); err != nil {
		return
	}
	s.logger.Debug().Str("name", name).Str("subscription", id).Msg("event stream opened")

	// Any further input is ignored; EOF ends the stream.
	hangup := make(chan struct{})
	go func() {
		defer close(hangup)
		for scanner.Scan() {
		}
	}()

	for {
		select {
		case ev := <-queue:
			line, err := json.Marshal(ev)
			if err != nil {
				s.logger.Debug().Err(err).Str("event", ev.Name).Msg("cannot encode stream event")
				continue
			}
			if err := w.write(line); err != nil {
				return
			}
		case <-hangup:
			s.logger.Debug().Str("subscription", id).Msg("event stream closed by peer")
			return
		case <-s.done:
			return
		}
	}
}

type lineWriter struct {
	mu   sync.Mutex
	conn net.Conn
}

func (w *lineWriter) write(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := w.conn.Write(append(line, '\n'))
	return err
}
