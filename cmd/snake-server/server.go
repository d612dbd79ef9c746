package main

import (
	"log"
	"net/http"
	"sync"

	"snake-arena/config"
	"snake-arena/game"
	"snake-arena/game/scheduler"
	"snake-arena/input"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ServerMessage struct {
	Type   string         `json:"type"`
	Config *config.Config `json:"config,omitempty"`
	State  *game.Snapshot `json:"state,omitempty"`
	Result *game.Result   `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type ClientMessage struct {
	Action string `json:"action"`
}

// Server hands every websocket connection its own session and scheduler.
type Server struct {
	cfg      config.Config
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*game.Session
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*game.Session),
	}
}

func NewRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.ReleaseMode {
		router.Use(gin.Logger())
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/api/config", s.handleConfig)
	router.GET("/ws", s.handleWebSocket)
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.activeSessions()})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg)
}

func (s *Server) activeSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) track(session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *Server) untrack(session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session.ID)
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	// Mutex to protect concurrent writes to the WebSocket connection
	var writeMu sync.Mutex
	safeWriteJSON := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	loop := scheduler.NewLoop()
	defer loop.Stop()

	session := game.NewSession(s.cfg.Options(), loop, func(e game.Event) {
		msg := ServerMessage{Type: "state", State: &e.Snapshot}
		if e.Kind == game.EventGameOver {
			msg = ServerMessage{Type: "gameover", State: &e.Snapshot, Result: &e.Result}
		}
		if err := safeWriteJSON(msg); err != nil {
			log.Println("Write error:", err)
		}
	})
	defer session.Close()

	s.track(session)
	defer s.untrack(session)
	log.Printf("New WebSocket connection from %s: session %s", c.Request.RemoteAddr, session.ID)

	cfg := s.cfg
	safeWriteJSON(ServerMessage{Type: "config", Config: &cfg})
	initial := session.Snapshot()
	safeWriteJSON(ServerMessage{Type: "state", State: &initial})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("Read error:", err)
			}
			return
		}

		action, err := input.ParseAction(msg.Action)
		if err != nil {
			log.Printf("session %s: %v", session.ID, err)
			safeWriteJSON(ServerMessage{Type: "error", Error: err.Error()})
			continue
		}
		if action == input.ActionQuit {
			return
		}
		input.Dispatch(session, action)

		// Immediate state update for UI responsiveness
		state := session.Snapshot()
		safeWriteJSON(ServerMessage{Type: "state", State: &state})
	}
}
