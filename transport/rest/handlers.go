package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
)

type playerRequest struct {
	ID string `json:"id"`
}

type newGameRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

type joinRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type moveRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Move     string `json:"move" binding:"required"`
}

func (that *Server) ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// createPlayer returns the player with the given id or registers a new one.
func (that *Server) createPlayer(ctx *gin.Context) {
	var req playerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid player data"})
		return
	}

	player, err := that.games.GetOrCreatePlayer(ctx.Request.Context(), req.ID)
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, player)
}

func (that *Server) history(ctx *gin.Context) {
	histories, err := that.games.History(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, histories)
}

func (that *Server) createGame(ctx *gin.Context) {
	var req newGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid game data"})
		return
	}

	game, err := that.games.CreateGame(ctx.Request.Context(), req.PlayerID, req.Type)
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

func (that *Server) getGame(ctx *gin.Context) {
	game, err := that.games.GetGame(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

func (that *Server) joinGame(ctx *gin.Context) {
	var req joinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid join data"})
		return
	}

	game, err := that.games.JoinGame(ctx.Request.Context(), ctx.Param("id"), req.PlayerID)
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// makeMove plays a move in the game from the path. A move that ends the
// game is answered with the final record.
func (that *Server) makeMove(ctx *gin.Context) {
	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid move data"})
		return
	}

	gameID := ctx.Param("id")

	current, err := that.games.GetGame(ctx.Request.Context(), gameID)
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	// moves always land in the player's current game, so it has to be the one from the path
	player, err := that.games.GetOrCreatePlayer(ctx.Request.Context(), req.PlayerID)
	if err != nil {
		that.fail(ctx, err, nil)
		return
	}

	if !current.HasPlayer(player.ID) || player.GameID != gameID {
		that.fail(ctx, fmt.Errorf("%w: player %s, game %s", apperror.ErrNotInGame, req.PlayerID, gameID), nil)
		return
	}

	game, err := that.games.MakeMove(ctx.Request.Context(), req.PlayerID, req.Move)
	if err != nil && !errors.Is(err, apperror.ErrGameFinished) {
		that.fail(ctx, err, game)
		return
	}

	ctx.JSON(http.StatusOK, game)
}
