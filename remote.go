package peekviz

import (
	"context"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// DefaultRemoteAddr is where [Serve] listens for viewers unless configured
// otherwise.
const DefaultRemoteAddr = ":9001"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	outboxSize = 256
)

// RemoteSession is the headless side of a remote setup: it accepts viewer
// connections over a websocket, fans mutation batches out to them, and
// collects their control events. It implements [Session].
//
// The session keeps a shadow copy of the scene so viewers that connect
// mid-run receive a replay batch bringing them up to date.
type RemoteSession struct {
	log      logging.Logger
	listener net.Listener
	server   *http.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	shadow  *Scene
	conns   map[string]*remoteConn
	inbound []Message
	closed  bool
}

type remoteConn struct {
	id     string
	ws     *websocket.Conn
	outbox chan []byte
	done   chan struct{}
	once   sync.Once
}

// RemoteOption configures a [RemoteSession].
type RemoteOption func(*RemoteSession)

// WithRemoteLogger sets the session's logger.
func WithRemoteLogger(l logging.Logger) RemoteOption {
	return func(s *RemoteSession) {
		s.log = l
	}
}

// ListenRemote starts a websocket server for viewers on addr. Viewers
// connect to ws://host:port/ws.
func ListenRemote(addr string, opts ...RemoteOption) (*RemoteSession, error) {
	if addr == "" {
		addr = DefaultRemoteAddr
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}

	s := &RemoteSession{
		listener: l,
		shadow:   NewScene(),
		conns:    make(map[string]*remoteConn),
		upgrader: websocket.Upgrader{
			// Viewers are debug tools on trusted networks.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.New(logging.Info, os.Stderr, true)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.server = &http.Server{Handler: mux}
	go s.server.Serve(l)

	s.log.Info("listening for viewers", "addr", l.Addr().String())
	return s, nil
}

// Addr returns the address the session is listening on. Useful with a
// ":0" listen address.
func (s *RemoteSession) Addr() string {
	return s.listener.Addr().String()
}

func (s *RemoteSession) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warning("websocket upgrade failed", "error", err.Error())
		return
	}

	conn := &remoteConn{
		id:     uuid.NewString(),
		ws:     ws,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ws.Close()
		return
	}
	// Bring the new viewer up to date before it sees live traffic.
	if replay := s.shadow.Replay(); len(replay) > 0 {
		data, err := EncodeBatch(replay)
		if err != nil {
			s.mu.Unlock()
			s.log.Error("encoding replay batch", "error", err.Error())
			ws.Close()
			return
		}
		conn.outbox <- data
	}
	s.conns[conn.id] = conn
	s.mu.Unlock()

	s.log.Info("viewer connected", "id", conn.id, "remote", ws.RemoteAddr().String())
	go s.writePump(conn)
	go s.readPump(conn)
}

func (s *RemoteSession) writePump(c *remoteConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case data := <-c.outbox:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(c, err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(c, err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *RemoteSession) readPump(c *remoteConn) {
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			s.drop(c, err)
			return
		}
		events, err := DecodeBatch(data)
		if err != nil {
			s.log.Warning("dropping undecodable event batch", "id", c.id, "error", err.Error())
			continue
		}
		s.mu.Lock()
		s.inbound = append(s.inbound, events...)
		s.mu.Unlock()
	}
}

// drop disconnects a viewer.
func (s *RemoteSession) drop(c *remoteConn, err error) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
	if err != nil && !s.isClosed() {
		s.log.Info("viewer disconnected", "id", c.id, "reason", err.Error())
	}
}

func (s *RemoteSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Send implements [Session]. The batch is applied to the shadow scene and
// fanned out to all connected viewers. A viewer whose outbox is full is
// disconnected: the stream is cumulative, so skipping messages for a slow
// viewer would corrupt its scene.
func (s *RemoteSession) Send(batch []Message) error {
	data, err := EncodeBatch(batch)
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	s.mu.Lock()
	for _, msg := range batch {
		if err := s.shadow.Apply(msg); err != nil {
			s.log.Warning("shadow scene rejected mutation", "kind", string(msg.MessageKind()), "error", err.Error())
		}
	}
	conns := make([]*remoteConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		select {
		case c.outbox <- data:
		default:
			s.log.Warning("viewer too slow, disconnecting", "id", c.id)
			s.drop(c, nil)
		}
	}
	return nil
}

// Events implements [Session].
func (s *RemoteSession) Events() ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.inbound
	s.inbound = nil
	return events, nil
}

// Close implements [Session]: it disconnects all viewers and stops
// listening.
func (s *RemoteSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conns := make([]*remoteConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.conns = map[string]*remoteConn{}
	s.mu.Unlock()

	for _, c := range conns {
		c.once.Do(func() {
			close(c.done)
			c.ws.Close()
		})
	}
	return s.server.Shutdown(context.Background())
}
