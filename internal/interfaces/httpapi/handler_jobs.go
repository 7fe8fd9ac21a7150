package httpapi

import (
	"fmt"
	"net/http"

	"github.com/spinhall/ladder-league/internal/usecase"
)

// RunExpireChallengesJob sweeps pending challenges past their TTL.
// Invoked by the external scheduler through the internal job route.
func (h *Handler) RunExpireChallengesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunExpireChallengesJob")
	defer span.End()

	if h.sweepService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sweep service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req expireChallengesRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.sweepService.ExpireStale(ctx, usecase.SweepInput{
		LeagueID:   req.LeagueID,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run expire challenges job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "expire challenges job finished",
		"league_count", result.LeagueCount,
		"expired_count", result.ExpiredCount,
		"failed_count", result.FailedCount,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}

type expireChallengesRequest struct {
	LeagueID   string `json:"league_id"`
	MaxWorkers int    `json:"max_workers"`
}
