package input

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/BeatGlow/pencil/internal/logger"
	"github.com/BeatGlow/pencil/stylus"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMsgSize     = 1 << 12 // 4 KB
	clientQueue    = 16
	statusOK       = "ok"
	maxHeaderBytes = 1 << 20 // 1 MB

	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

//go:embed index.html
var indexHTML []byte

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bridges browser pointer events over a websocket and streams the
// state back to every connected page.
type Server struct {
	events chan<- stylus.Event
	log    *logger.Logger
	router *gin.Engine

	mu      sync.Mutex
	clients map[uuid.UUID]chan []byte
	last    []byte

	httpServer *http.Server
}

// NewServer returns a server that sends decoded events to events.
func NewServer(events chan<- stylus.Event, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		events:  events,
		log:     log,
		clients: make(map[uuid.UUID]chan []byte),
	}
	s.router = s.initRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) initRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.index)
	router.GET("/health", s.health)
	router.GET("/ws", s.wsConnect)
	return router
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) health(c *gin.Context) {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"status":  statusOK,
		"clients": n,
	})
}

// Publish sends state to all connected clients and keeps it for new ones.
func (s *Server) Publish(state any) {
	b, err := json.Marshal(Message{Type: TypeState, Data: state})
	if err != nil {
		s.log.Errorw("ws_state_encode_failed", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = b
	for id, send := range s.clients {
		select {
		case send <- b:
		default:
			s.log.Warnw("ws_client_slow", "client", id.String())
		}
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) register() (uuid.UUID, chan []byte) {
	id := uuid.New()
	send := make(chan []byte, clientQueue)

	s.mu.Lock()
	s.clients[id] = send
	if s.last != nil {
		send <- s.last
	}
	s.mu.Unlock()
	return id, send
}

func (s *Server) unregister(id uuid.UUID) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

func (s *Server) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	id, send := s.register()
	defer s.unregister(id)
	log := s.log.With("client", id.String())
	log.Infow("ws_connected", "remote", c.Request.RemoteAddr)

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var (
		ctx  = c.Request.Context()
		done = make(chan struct{})
		errs = make(chan string, clientQueue)
	)
	go s.startReader(ctx, conn, log, errs, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Infow("ws_ping_failed", "err", err)
				return
			}
		case msg := <-errs:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Message{Type: TypeError, Error: msg}); err != nil {
				log.Infow("ws_write_failed", "err", err)
				return
			}
		case b := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// startReader decodes incoming messages into events until the connection
// closes. Invalid messages are answered with an error message.
func (s *Server) startReader(ctx context.Context, conn *websocket.Conn, log *logger.Logger, errs chan<- string, done chan<- struct{}) {
	defer close(done)
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			log.Infow("ws_read_closed", "err", err)
			return
		}
		ev, err := Decode(b)
		if err != nil {
			log.Debugw("ws_bad_message", "err", err)
			select {
			case errs <- err.Error():
			default:
			}
			continue
		}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// normalizeAddr accepts "8080" or ":8080".
func normalizeAddr(addr string) string {
	if addr == "" || strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

// ListenAndServe serves HTTP on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              normalizeAddr(addr),
		Handler:           s.router,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.log.Infow("http_listen", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
