package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	"github.com/spinhall/ladder-league/internal/usecase"
)

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createChallengeRequest
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
	item, err := h.challengeService.Create(ctx, usecase.CreateChallengeInput{
		ChallengerID:  principal.UserID,
		LeagueID:      leagueID,
		TargetID:      req.TargetID,
		ProposedSlots: proposedSlotsFromRequest(req.ProposedSlots),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create challenge failed",
			"league_id", leagueID,
			"target_id", req.TargetID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, challengeToDTO(ctx, item))
}

func (h *Handler) ListMyChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyChallenges")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	items, err := h.challengeService.ListMine(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list challenges failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]challengeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, challengeToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.Get(ctx, principal.UserID, challengeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(ctx, item))
}

func (h *Handler) AcceptChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req acceptChallengeRequest
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

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.Accept(ctx, usecase.AcceptChallengeInput{
		ChallengeID: challengeID,
		ResponderID: principal.UserID,
		SlotID:      req.SlotID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "accept challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(ctx, item))
}

func (h *Handler) RejectChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req rejectChallengeRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	err := h.challengeService.Reject(ctx, usecase.RejectChallengeInput{
		ChallengeID: challengeID,
		ResponderID: principal.UserID,
		Reason:      req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reject challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": string(challenge.StatusRejected)})
}

func (h *Handler) WithdrawChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	if err := h.challengeService.Withdraw(ctx, principal.UserID, challengeID); err != nil {
		h.logger.WarnContext(ctx, "withdraw challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": string(challenge.StatusWithdrawn)})
}

func (h *Handler) CancelChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	if err := h.challengeService.Cancel(ctx, principal.UserID, challengeID); err != nil {
		h.logger.WarnContext(ctx, "cancel challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": string(challenge.StatusCancelled)})
}

func (h *Handler) SubmitChallengeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitChallengeScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitScoreRequest
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

	sets := make([]challenge.SetScore, 0, len(req.Sets))
	for _, set := range req.Sets {
		sets = append(sets, challenge.SetScore{Challenger: set.Challenger, Target: set.Target})
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.SubmitScore(ctx, usecase.SubmitScoreInput{
		ChallengeID: challengeID,
		ReporterID:  principal.UserID,
		Result: challenge.Result{
			WinnerID: req.WinnerID,
			Sets:     sets,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit challenge score failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(ctx, item))
}

type createChallengeRequest struct {
	TargetID      string            `json:"targetId" validate:"required"`
	ProposedSlots []timeSlotRequest `json:"proposedSlots" validate:"required,min=1,max=10,dive"`
}

type timeSlotRequest struct {
	ID   string `json:"id" validate:"required"`
	Date string `json:"date" validate:"required"`
	Day  string `json:"day" validate:"required"`
	Slot string `json:"slot" validate:"required"`
}

type acceptChallengeRequest struct {
	SlotID string `json:"slotId" validate:"required"`
}

type rejectChallengeRequest struct {
	Reason string `json:"reason"`
}

type submitScoreRequest struct {
	WinnerID string            `json:"winnerId" validate:"required"`
	Sets     []setScoreRequest `json:"sets" validate:"required,min=1,max=5,dive"`
}

type setScoreRequest struct {
	Challenger int `json:"challenger" validate:"min=0"`
	Target     int `json:"target" validate:"min=0"`
}

type challengeDTO struct {
	ID              string        `json:"id"`
	LeagueID        string        `json:"leagueId"`
	ChallengerID    string        `json:"challengerId"`
	TargetID        string        `json:"targetId"`
	ChallengerRank  int           `json:"challengerRank"`
	TargetRank      int           `json:"targetRank"`
	Status          string        `json:"status"`
	ProposedSlots   []timeSlotDTO `json:"proposedSlots"`
	AcceptedSlotID  *string       `json:"acceptedSlotId,omitempty"`
	RejectionReason *string       `json:"rejectionReason,omitempty"`
	Result          *resultDTO    `json:"result,omitempty"`
	ScoreSubmitter  *string       `json:"scoreSubmittedBy,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	ExpiresAt       string        `json:"expiresAt"`
	RespondedAt     string        `json:"respondedAt,omitempty"`
	ResolvedAt      string        `json:"resolvedAt,omitempty"`
}

type timeSlotDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Day  string `json:"day"`
	Slot string `json:"slot"`
}

type resultDTO struct {
	WinnerID string        `json:"winnerId"`
	Sets     []setScoreDTO `json:"sets"`
}

type setScoreDTO struct {
	Challenger int `json:"challenger"`
	Target     int `json:"target"`
}

func challengeToDTO(ctx context.Context, v challenge.Challenge) challengeDTO {
	ctx, span := startSpan(ctx, "httpapi.challengeToDTO")
	defer span.End()

	slots := make([]timeSlotDTO, 0, len(v.ProposedSlots))
	for _, s := range v.ProposedSlots {
		slots = append(slots, timeSlotDTO{
			ID:   s.ID,
			Date: s.Date,
			Day:  string(s.Day),
			Slot: string(s.Slot),
		})
	}

	out := challengeDTO{
		ID:              v.ID,
		LeagueID:        v.LeagueID,
		ChallengerID:    v.ChallengerID,
		TargetID:        v.TargetID,
		ChallengerRank:  v.ChallengerRank,
		TargetRank:      v.TargetRank,
		Status:          string(v.Status),
		ProposedSlots:   slots,
		AcceptedSlotID:  v.AcceptedSlotID,
		RejectionReason: v.RejectionReason,
		ScoreSubmitter:  v.ScoreSubmittedBy,
		CreatedAt:       v.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:       v.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if v.RespondedAt != nil {
		out.RespondedAt = v.RespondedAt.UTC().Format(time.RFC3339)
	}
	if v.ResolvedAt != nil {
		out.ResolvedAt = v.ResolvedAt.UTC().Format(time.RFC3339)
	}
	if v.Result != nil {
		sets := make([]setScoreDTO, 0, len(v.Result.Sets))
		for _, set := range v.Result.Sets {
			sets = append(sets, setScoreDTO{Challenger: set.Challenger, Target: set.Target})
		}
		out.Result = &resultDTO{WinnerID: v.Result.WinnerID, Sets: sets}
	}

	return out
}

func proposedSlotsFromRequest(in []timeSlotRequest) []challenge.TimeSlot {
	out := make([]challenge.TimeSlot, 0, len(in))
	for _, s := range in {
		out = append(out, challenge.TimeSlot{
			ID:   s.ID,
			Date: s.Date,
			Day:  membership.Weekday(s.Day),
			Slot: membership.Slot(s.Slot),
		})
	}
	return out
}
