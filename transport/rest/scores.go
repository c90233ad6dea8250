package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/peer"
)

type scoreRepo interface {
	Get(ctx context.Context, a, b string) (entity.ScoreRecord, error)
}

type ScoreHandler struct {
	logger  *slog.Logger
	scores  scoreRepo
	localID string
}

func NewScoreHandler(logger *slog.Logger, scores scoreRepo, localID string) *ScoreHandler {
	return &ScoreHandler{
		logger:  logger.With("component", "rest"),
		scores:  scores,
		localID: localID,
	}
}

// Get - returns the local player's tally against :opponent.
func (that *ScoreHandler) Get(ctx *gin.Context) {
	log := that.logger.With("method", "Get")

	opponent := ctx.Param("opponent")

	err := peer.ValidatePeerID(opponent)
	if err == nil && opponent == that.localID {
		err = apperror.ErrSelfConnect
	}

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := that.scores.Get(ctx.Request.Context(), that.localID, opponent)
	if err != nil {
		log.Error("failed to get score", "opponent", opponent, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"key":    entity.ScoreKey(that.localID, opponent),
		"scores": record,
	})
}
