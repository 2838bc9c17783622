package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

func statusFor(err error) int {
	switch {
	case morris.IsRuleViolation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, morris.ErrMalformedCoordinate),
		errors.Is(err, apperror.ErrUnknownGameType):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFull),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotInGame),
		errors.Is(err, apperror.ErrAlreadyInGame):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Rejected moves carry the unchanged game.
func (that *Server) fail(ctx *gin.Context, err error, game *entity.Game) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", ctx.FullPath(), "error", err)
		ctx.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if game != nil {
		body["game"] = game
	}

	ctx.JSON(status, body)
}
