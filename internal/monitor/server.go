// Package monitor serves the frame buffer over HTTP so a panel can be
// inspected and drawn on without looking at it.
package monitor

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxMessage = 512
)

// Server streams board dumps to websocket clients and applies the drawing
// commands they send
type Server struct {
	fb       *matrix.FrameBuffer
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client is one websocket connection. A connection allows a single writer,
// so both pumps write through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewServer creates a monitor for fb, pushing a dump every interval
func NewServer(fb *matrix.FrameBuffer, interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second
	}
	return &Server{
		fb:       fb,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP routes: /health, /board and /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/board", s.handleBoard)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Clients returns the number of connected websocket clients
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cmd, err := ParseCommand(r.FormValue("cmd"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cmd.Apply(s.fb)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.fb.WriteBoard(w); err != nil {
		log.Debug().Err(err).Msg("failed to write board")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn}
	remote := conn.RemoteAddr().String()

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	log.Info().Str("remote", remote).Msg("monitor client connected")

	done := make(chan struct{})
	go s.writePump(c, done)
	s.readPump(c)
	close(done)

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	log.Info().Str("remote", remote).Msg("monitor client disconnected")
}

// readPump applies commands from the client until the connection closes.
// Every command is answered with either the new board or an error line.
func (s *Server) readPump(c *client) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("monitor read failed")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		cmd, err := ParseCommand(string(message))
		if err != nil {
			log.Debug().Err(err).Str("message", string(message)).Msg("rejected monitor command")
			c.write(websocket.TextMessage, "error: "+err.Error())
			continue
		}
		cmd.Apply(s.fb)
		c.write(websocket.TextMessage, s.fb.String())
	}
}

// writePump pushes the board every interval and pings the client
func (s *Server) writePump(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
		// unblocks readPump when the pump gives up on a dead client
		c.conn.Close()
	}()

	if !c.write(websocket.TextMessage, s.fb.String()) {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !c.write(websocket.TextMessage, s.fb.String()) {
				return
			}
		case <-ping.C:
			if !c.write(websocket.PingMessage, "") {
				return
			}
		}
	}
}

func (c *client) write(messageType int, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(messageType, []byte(text)); err != nil {
		log.Debug().Err(err).Msg("monitor write failed")
		return false
	}
	return true
}
