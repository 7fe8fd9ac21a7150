package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/domain/membership"
	"github.com/spinhall/ladder-league/internal/usecase"
)

func (h *Handler) GetLadder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLadder")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	entries, err := h.membershipService.GetLadder(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ladder failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateAvailability")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateAvailabilityRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if err := h.membershipService.UpdateAvailability(ctx, principal.UserID, leagueID, req.Availability); err != nil {
		h.logger.WarnContext(ctx, "update availability failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"availability": req.Availability})
}

func (h *Handler) GetSharedAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSharedAvailability")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	otherUserID := strings.TrimSpace(r.PathValue("userID"))
	shared, count, err := h.membershipService.SharedAvailability(ctx, principal.UserID, leagueID, otherUserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get shared availability failed",
			"league_id", leagueID,
			"other_user_id", otherUserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sharedAvailabilityDTO{
		UserID:          otherUserID,
		SharedSlots:     shared,
		SharedSlotCount: count,
	})
}

func (h *Handler) SetMemberStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMemberStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setStatusRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	member, err := h.membershipService.SetStatus(ctx, usecase.SetStatusInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		Status:   membership.Status(req.Status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set member status failed",
			"league_id", leagueID,
			"status", req.Status,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberToDTO(ctx, member))
}

type updateAvailabilityRequest struct {
	Availability membership.Availability `json:"availability"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active oot inactive"`
}

type sharedAvailabilityDTO struct {
	UserID          string                  `json:"userId"`
	SharedSlots     membership.Availability `json:"sharedSlots"`
	SharedSlotCount int                     `json:"sharedSlotCount"`
}
