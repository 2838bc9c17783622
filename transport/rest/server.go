package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeMove(ctx context.Context, playerID, move string) (*entity.Game, error)

	History(ctx context.Context, playerID string) ([]*entity.History, error)
}

type Server struct {
	logger *slog.Logger
	games  gameUseCase

	router *gin.Engine
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		logger: logger.With("component", "rest"),
		games:  games,
		router: gin.New(),
	}

	server.router.Use(gin.Recovery(), server.logRequest)

	server.router.GET("/ping", server.ping)

	server.router.POST("/players", server.createPlayer)
	server.router.GET("/players/:id/history", server.history)

	server.router.POST("/games", server.createGame)
	server.router.GET("/games/:id", server.getGame)
	server.router.POST("/games/:id/join", server.joinGame)
	server.router.POST("/games/:id/moves", server.makeMove)

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start serves the API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) logRequest(ctx *gin.Context) {
	start := time.Now()

	ctx.Next()

	that.logger.Debug("request handled",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"status", ctx.Writer.Status(),
		"duration", time.Since(start),
	)
}
