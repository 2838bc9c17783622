package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
)

const (
	actionConnect  = "connect"
	actionGameNew  = "game:new"
	actionGameJoin = "game:join"
	actionGameMove = "game:move"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeMove(ctx context.Context, playerID, move string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

type Server struct {
	logger *slog.Logger
	games  gameUseCase

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),

		connections: make(map[string]*connection),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameJoin] = server.handleJoinGame
	server.handlers[actionGameMove] = server.handleGameMove

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start serves websocket connections until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}

		that.closeConnections()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the request and processes messages until the client leaves.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{ws: ws}
	defer that.handleDisconnect(conn)

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	that.handleMessages(req.Context(), conn)
}

func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(conn, "", "invalid message", nil)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action", nil)
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// register binds the connection to the player. A socket speaks for one
// player at a time, so an earlier binding of the same socket is dropped.
func (that *Server) register(playerID string, conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if conn.playerID != "" && conn.playerID != playerID && that.connections[conn.playerID] == conn {
		delete(that.connections, conn.playerID)
	}

	conn.playerID = playerID
	that.connections[playerID] = conn
}

// boundPlayer returns the player the connection was registered for, if any.
func (that *Server) boundPlayer(conn *connection) string {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	return conn.playerID
}

func (that *Server) handleDisconnect(conn *connection) {
	that.connectionsMutex.Lock()
	for playerID, c := range that.connections {
		if c == conn {
			delete(that.connections, playerID)
			that.logger.Info("player disconnected", "playerID", playerID)
		}
	}
	that.connectionsMutex.Unlock()

	_ = conn.ws.Close()
}

func (that *Server) closeConnections() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, conn := range that.connections {
		_ = conn.ws.Close()
		delete(that.connections, playerID)
	}
}

// connection serializes writes, gorilla allows one concurrent writer.
type connection struct {
	mu sync.Mutex
	ws *websocket.Conn

	// playerID is guarded by Server.connectionsMutex.
	playerID string
}

func (that *connection) send(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
