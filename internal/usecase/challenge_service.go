package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	idgen "github.com/spinhall/ladder-league/internal/platform/id"
	"github.com/spinhall/ladder-league/internal/platform/logging"
)

type CreateChallengeInput struct {
	ChallengerID  string
	LeagueID      string
	TargetID      string
	ProposedSlots []challenge.TimeSlot
}

type AcceptChallengeInput struct {
	ChallengeID string
	ResponderID string
	SlotID      string
}

type RejectChallengeInput struct {
	ChallengeID string
	ResponderID string
	Reason      string
}

type SubmitScoreInput struct {
	ChallengeID string
	ReporterID  string
	Result      challenge.Result
}

// ChallengeEvent is pushed to the optional notifier after a successful
// transition.
type ChallengeEvent struct {
	Type        string `json:"type"`
	LeagueID    string `json:"leagueId"`
	ChallengeID string `json:"challengeId"`
	ActorID     string `json:"actorId"`
}

type challengeNotifier interface {
	Publish(ctx context.Context, event ChallengeEvent) error
}

// ChallengeService drives the challenge lifecycle. Every status change
// is a conditional write in the repository; the service never does a
// read-check-write dance on status. Secondary effects after a
// transition (counters, penalty, audit log, notifications) are best
// effort and never unwind the transition.
type ChallengeService struct {
	memberRepo    membership.Repository
	challengeRepo challenge.Repository
	logRepo       activitylog.Repository
	rules         challenge.Rules
	notifier      challengeNotifier
	idGen         idgen.Generator
	now           func() time.Time
}

func NewChallengeService(
	memberRepo membership.Repository,
	challengeRepo challenge.Repository,
	logRepo activitylog.Repository,
	rules challenge.Rules,
	notifier challengeNotifier,
	idGen idgen.Generator,
) *ChallengeService {
	return &ChallengeService{
		memberRepo:    memberRepo,
		challengeRepo: challengeRepo,
		logRepo:       logRepo,
		rules:         rules,
		notifier:      notifier,
		idGen:         idGen,
		now:           time.Now,
	}
}

// Create validates a new challenge against fresh membership and
// challenge state, then inserts it as pending. Validation makes no
// writes; the insert is the only mutation.
func (s *ChallengeService) Create(ctx context.Context, input CreateChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Create")
	defer span.End()

	input.ChallengerID = strings.TrimSpace(input.ChallengerID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TargetID = strings.TrimSpace(input.TargetID)
	if input.ChallengerID == "" || input.LeagueID == "" || input.TargetID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: challenger, league, and target ids are required", ErrInvalidInput)
	}

	snapshot, err := s.loadValidationContext(ctx, input)
	if err != nil {
		return challenge.Challenge{}, err
	}

	if err := s.rules.ValidateNew(s.now().UTC(), input.ChallengerID, input.TargetID, snapshot, input.ProposedSlots); err != nil {
		return challenge.Challenge{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	now := s.now().UTC()
	c := challenge.Challenge{
		ID:             id,
		LeagueID:       input.LeagueID,
		ChallengerID:   input.ChallengerID,
		TargetID:       input.TargetID,
		ChallengerRank: snapshot.Challenger.Rank,
		TargetRank:     snapshot.Target.Rank,
		Status:         challenge.StatusPending,
		ProposedSlots:  input.ProposedSlots,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(challenge.PendingTTL),
	}
	if err := s.challengeRepo.Create(ctx, c); err != nil {
		return challenge.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}

	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       c.ChallengerID,
		Action:        activitylog.ActionChallengeSent,
		RelatedUserID: c.TargetID,
		ChallengeID:   c.ID,
		Metadata: map[string]any{
			"challengerRank": c.ChallengerRank,
			"targetRank":     c.TargetRank,
		},
	})
	s.publish(ctx, ChallengeEvent{Type: "challenge.sent", LeagueID: c.LeagueID, ChallengeID: c.ID, ActorID: c.ChallengerID})

	return c, nil
}

func (s *ChallengeService) loadValidationContext(ctx context.Context, input CreateChallengeInput) (challenge.Context, error) {
	var snapshot challenge.Context
	var err error

	snapshot.Challenger, snapshot.ChallengerFound, err = s.memberRepo.GetByUserAndLeague(ctx, input.ChallengerID, input.LeagueID)
	if err != nil {
		return challenge.Context{}, fmt.Errorf("get challenger membership: %w", err)
	}
	snapshot.Target, snapshot.TargetFound, err = s.memberRepo.GetByUserAndLeague(ctx, input.TargetID, input.LeagueID)
	if err != nil {
		return challenge.Context{}, fmt.Errorf("get target membership: %w", err)
	}

	snapshot.OpenBetween, err = s.challengeRepo.CountOpenBetween(ctx, input.LeagueID, input.ChallengerID, input.TargetID)
	if err != nil {
		return challenge.Context{}, fmt.Errorf("count open challenges between users: %w", err)
	}
	snapshot.PendingOutgoing, err = s.challengeRepo.CountPendingOutgoing(ctx, input.LeagueID, input.ChallengerID)
	if err != nil {
		return challenge.Context{}, fmt.Errorf("count pending outgoing: %w", err)
	}
	snapshot.PendingIncoming, err = s.challengeRepo.CountPendingIncoming(ctx, input.LeagueID, input.TargetID)
	if err != nil {
		return challenge.Context{}, fmt.Errorf("count pending incoming: %w", err)
	}

	return snapshot, nil
}

func (s *ChallengeService) Get(ctx context.Context, callerID, challengeID string) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Get")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	challengeID = strings.TrimSpace(challengeID)
	if callerID == "" || challengeID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: user id and challenge id are required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if !c.Involves(callerID) {
		return challenge.Challenge{}, fmt.Errorf("%w: you are not a party to this challenge", ErrUnauthorized)
	}
	return c, nil
}

func (s *ChallengeService) ListMine(ctx context.Context, userID, leagueID string) ([]challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user id and league id are required", ErrInvalidInput)
	}

	if _, isMember, err := s.memberRepo.GetByUserAndLeague(ctx, userID, leagueID); err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	} else if !isMember {
		return nil, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	}

	items, err := s.challengeRepo.ListByParticipant(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return items, nil
}

// Accept moves pending to accepted for the challenged party. The chosen
// slot must be one of the originally proposed slots; a client-echoed
// arbitrary slot is rejected.
func (s *ChallengeService) Accept(ctx context.Context, input AcceptChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Accept")
	defer span.End()

	input.ChallengeID = strings.TrimSpace(input.ChallengeID)
	input.ResponderID = strings.TrimSpace(input.ResponderID)
	input.SlotID = strings.TrimSpace(input.SlotID)
	if input.ChallengeID == "" || input.ResponderID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge id and responder id are required", ErrInvalidInput)
	}
	if input.SlotID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: selected slot id is required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, input.ChallengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if c.TargetID != input.ResponderID {
		return challenge.Challenge{}, fmt.Errorf("%w: only the challenged member may accept", ErrUnauthorized)
	}
	if c.Status != challenge.StatusPending {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}
	slot, ok := c.SlotByID(input.SlotID)
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: slot is not among the proposed slots", ErrInvalidInput)
	}

	now := s.now().UTC()
	changed, err := s.challengeRepo.MarkAccepted(ctx, c.ID, slot.ID, now)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("accept challenge: %w", err)
	}
	if !changed {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}

	if err := s.memberRepo.ApplyActivityEvent(ctx, c.LeagueID, input.ResponderID, membership.EventAcceptance, now); err != nil {
		logging.Default().ErrorContext(ctx, "count acceptance", "error", err, "challenge_id", c.ID, "user_id", input.ResponderID)
	}
	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       input.ResponderID,
		Action:        activitylog.ActionChallengeAccepted,
		RelatedUserID: c.ChallengerID,
		ChallengeID:   c.ID,
		Metadata:      map[string]any{"slot": slot},
	})
	s.publish(ctx, ChallengeEvent{Type: "challenge.accepted", LeagueID: c.LeagueID, ChallengeID: c.ID, ActorID: input.ResponderID})

	c.Status = challenge.StatusAccepted
	c.AcceptedSlotID = &slot.ID
	c.RespondedAt = &now
	c.UpdatedAt = now
	return c, nil
}

// Reject declines a pending challenge. The rejection counts toward the
// fairness penalty unless the challenger has since drifted six or more
// ranks below the rejecter.
func (s *ChallengeService) Reject(ctx context.Context, input RejectChallengeInput) error {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Reject")
	defer span.End()

	input.ChallengeID = strings.TrimSpace(input.ChallengeID)
	input.ResponderID = strings.TrimSpace(input.ResponderID)
	input.Reason = strings.TrimSpace(input.Reason)
	if input.ChallengeID == "" || input.ResponderID == "" {
		return fmt.Errorf("%w: challenge id and responder id are required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, input.ChallengeID)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if c.TargetID != input.ResponderID {
		return fmt.Errorf("%w: only the challenged member may reject", ErrUnauthorized)
	}
	if c.Status != challenge.StatusPending {
		return fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}

	now := s.now().UTC()
	changed, err := s.challengeRepo.MarkRejected(ctx, c.ID, input.Reason, now)
	if err != nil {
		return fmt.Errorf("reject challenge: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}

	s.countRejection(ctx, c, input.ResponderID, now)
	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       input.ResponderID,
		Action:        activitylog.ActionChallengeRejected,
		RelatedUserID: c.ChallengerID,
		ChallengeID:   c.ID,
		Metadata:      map[string]any{"reason": input.Reason},
	})
	s.publish(ctx, ChallengeEvent{Type: "challenge.rejected", LeagueID: c.LeagueID, ChallengeID: c.ID, ActorID: input.ResponderID})

	return nil
}

// countRejection applies the activity-window bookkeeping after a reject
// and demotes the rejecter one rank when the penalty threshold is
// crossed. The exemption compares ranks as they are now, not the
// snapshots on the challenge row.
func (s *ChallengeService) countRejection(ctx context.Context, c challenge.Challenge, rejecterID string, now time.Time) {
	rejecter, rejOK, err := s.memberRepo.GetByUserAndLeague(ctx, rejecterID, c.LeagueID)
	if err != nil || !rejOK {
		logging.Default().ErrorContext(ctx, "load rejecter for rejection count", "error", err, "challenge_id", c.ID)
		return
	}
	challenger, chalOK, err := s.memberRepo.GetByUserAndLeague(ctx, c.ChallengerID, c.LeagueID)
	if err != nil {
		logging.Default().ErrorContext(ctx, "load challenger for rejection count", "error", err, "challenge_id", c.ID)
		return
	}
	if chalOK && membership.RejectionExempt(challenger.Rank, rejecter.Rank) {
		return
	}

	if err := s.memberRepo.ApplyActivityEvent(ctx, c.LeagueID, rejecterID, membership.EventRejection, now); err != nil {
		logging.Default().ErrorContext(ctx, "count rejection", "error", err, "challenge_id", c.ID, "user_id", rejecterID)
		return
	}

	after := rejecter.Window().Apply(membership.EventRejection, now)
	if !after.PenaltyDue() {
		return
	}
	s.applyRejectionPenalty(ctx, c.LeagueID, rejecter, now)
}

// applyRejectionPenalty drops the rejecter one rank by swapping with
// the member directly below, then clears the rejection counter so the
// penalty cannot fire again on the same window.
func (s *ChallengeService) applyRejectionPenalty(ctx context.Context, leagueID string, rejecter membership.Membership, now time.Time) {
	below, exists, err := s.memberRepo.GetByRank(ctx, leagueID, rejecter.Rank+1)
	if err != nil {
		logging.Default().ErrorContext(ctx, "load member below for penalty", "error", err, "league_id", leagueID, "rank", rejecter.Rank+1)
		return
	}
	if exists {
		if err := s.memberRepo.SwapRanks(ctx, leagueID, rejecter.UserID, below.UserID, now); err != nil {
			logging.Default().ErrorContext(ctx, "apply rejection penalty swap", "error", err, "league_id", leagueID, "user_id", rejecter.UserID)
			return
		}
	}
	if err := s.memberRepo.ClearRejectionCount(ctx, leagueID, rejecter.UserID, now); err != nil {
		logging.Default().ErrorContext(ctx, "clear rejection count", "error", err, "league_id", leagueID, "user_id", rejecter.UserID)
	}
	s.appendLog(ctx, activitylog.Entry{
		LeagueID: leagueID,
		ActorID:  rejecter.UserID,
		Action:   activitylog.ActionRejectionPenalty,
		Metadata: map[string]any{"fromRank": rejecter.Rank, "toRank": rejecter.Rank + 1},
	})
}

// Withdraw lets the challenger pull back a pending challenge.
func (s *ChallengeService) Withdraw(ctx context.Context, callerID, challengeID string) error {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Withdraw")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	challengeID = strings.TrimSpace(challengeID)
	if callerID == "" || challengeID == "" {
		return fmt.Errorf("%w: user id and challenge id are required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if c.ChallengerID != callerID {
		return fmt.Errorf("%w: only the challenger may withdraw", ErrUnauthorized)
	}
	if c.Status != challenge.StatusPending {
		return fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}

	now := s.now().UTC()
	changed, err := s.challengeRepo.MarkWithdrawn(ctx, c.ID, now)
	if err != nil {
		return fmt.Errorf("withdraw challenge: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: challenge is no longer pending", ErrConflict)
	}

	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       callerID,
		Action:        activitylog.ActionChallengeWithdrawn,
		RelatedUserID: c.TargetID,
		ChallengeID:   c.ID,
	})
	return nil
}

// Cancel calls off an accepted match. Either participant may cancel;
// the cancellation is counted on whoever cancelled.
func (s *ChallengeService) Cancel(ctx context.Context, callerID, challengeID string) error {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.Cancel")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	challengeID = strings.TrimSpace(challengeID)
	if callerID == "" || challengeID == "" {
		return fmt.Errorf("%w: user id and challenge id are required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if !c.Involves(callerID) {
		return fmt.Errorf("%w: you are not a party to this challenge", ErrUnauthorized)
	}
	if c.Status != challenge.StatusAccepted {
		return fmt.Errorf("%w: only an accepted challenge can be cancelled", ErrConflict)
	}

	now := s.now().UTC()
	changed, err := s.challengeRepo.MarkCancelled(ctx, c.ID, now)
	if err != nil {
		return fmt.Errorf("cancel challenge: %w", err)
	}
	if !changed {
		return fmt.Errorf("%w: challenge is no longer accepted", ErrConflict)
	}

	if err := s.memberRepo.ApplyActivityEvent(ctx, c.LeagueID, callerID, membership.EventCancellation, now); err != nil {
		logging.Default().ErrorContext(ctx, "count cancellation", "error", err, "challenge_id", c.ID, "user_id", callerID)
	}
	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       callerID,
		Action:        activitylog.ActionChallengeCancelled,
		RelatedUserID: c.Opponent(callerID),
		ChallengeID:   c.ID,
	})
	s.publish(ctx, ChallengeEvent{Type: "challenge.cancelled", LeagueID: c.LeagueID, ChallengeID: c.ID, ActorID: callerID})
	return nil
}

// SubmitScore records the result of an accepted match. Beating someone
// ranked above you swaps the two positions; beating someone below
// changes nothing.
func (s *ChallengeService) SubmitScore(ctx context.Context, input SubmitScoreInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "ChallengeService.SubmitScore")
	defer span.End()

	input.ChallengeID = strings.TrimSpace(input.ChallengeID)
	input.ReporterID = strings.TrimSpace(input.ReporterID)
	input.Result.WinnerID = strings.TrimSpace(input.Result.WinnerID)
	if input.ChallengeID == "" || input.ReporterID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge id and reporter id are required", ErrInvalidInput)
	}

	c, exists, err := s.challengeRepo.GetByID(ctx, input.ChallengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge not found", ErrNotFound)
	}
	if !c.Involves(input.ReporterID) {
		return challenge.Challenge{}, fmt.Errorf("%w: you are not a party to this challenge", ErrUnauthorized)
	}
	if c.Status != challenge.StatusAccepted {
		return challenge.Challenge{}, fmt.Errorf("%w: only an accepted challenge can be scored", ErrConflict)
	}
	if err := validateResult(c, input.Result); err != nil {
		return challenge.Challenge{}, err
	}

	now := s.now().UTC()
	changed, err := s.challengeRepo.MarkCompleted(ctx, c.ID, input.Result, input.ReporterID, now)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("complete challenge: %w", err)
	}
	if !changed {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge is no longer accepted", ErrConflict)
	}

	s.swapOnUpset(ctx, c, input.Result.WinnerID, now)
	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       input.ReporterID,
		Action:        activitylog.ActionChallengeCompleted,
		RelatedUserID: c.Opponent(input.ReporterID),
		ChallengeID:   c.ID,
		Metadata:      map[string]any{"winnerId": input.Result.WinnerID},
	})
	s.publish(ctx, ChallengeEvent{Type: "challenge.completed", LeagueID: c.LeagueID, ChallengeID: c.ID, ActorID: input.ReporterID})

	c.Status = challenge.StatusCompleted
	c.Result = &input.Result
	c.ScoreSubmittedBy = &input.ReporterID
	c.UpdatedAt = now
	c.ResolvedAt = &now
	return c, nil
}

// swapOnUpset exchanges ranks when the winner was ranked below the
// loser at completion time. Current ranks are used, not the snapshots
// taken at creation.
func (s *ChallengeService) swapOnUpset(ctx context.Context, c challenge.Challenge, winnerID string, now time.Time) {
	loserID := c.ChallengerID
	if winnerID == c.ChallengerID {
		loserID = c.TargetID
	}

	winner, winOK, err := s.memberRepo.GetByUserAndLeague(ctx, winnerID, c.LeagueID)
	if err != nil || !winOK {
		logging.Default().ErrorContext(ctx, "load winner for rank swap", "error", err, "challenge_id", c.ID)
		return
	}
	loser, loseOK, err := s.memberRepo.GetByUserAndLeague(ctx, loserID, c.LeagueID)
	if err != nil || !loseOK {
		logging.Default().ErrorContext(ctx, "load loser for rank swap", "error", err, "challenge_id", c.ID)
		return
	}
	if winner.Rank < loser.Rank {
		return
	}

	if err := s.memberRepo.SwapRanks(ctx, c.LeagueID, winner.UserID, loser.UserID, now); err != nil {
		logging.Default().ErrorContext(ctx, "swap ranks after win", "error", err, "challenge_id", c.ID)
		return
	}
	s.appendLog(ctx, activitylog.Entry{
		LeagueID:      c.LeagueID,
		ActorID:       winner.UserID,
		Action:        activitylog.ActionRankSwap,
		RelatedUserID: loser.UserID,
		ChallengeID:   c.ID,
		Metadata: map[string]any{
			"winnerRank": loser.Rank,
			"loserRank":  winner.Rank,
		},
	})
}

func validateResult(c challenge.Challenge, result challenge.Result) error {
	if result.WinnerID == "" {
		return fmt.Errorf("%w: winner id is required", ErrInvalidInput)
	}
	if !c.Involves(result.WinnerID) {
		return fmt.Errorf("%w: winner must be a participant", ErrInvalidInput)
	}
	if len(result.Sets) == 0 {
		return fmt.Errorf("%w: at least one set score is required", ErrInvalidInput)
	}
	if len(result.Sets) > 5 {
		return fmt.Errorf("%w: at most 5 set scores are allowed", ErrInvalidInput)
	}
	for _, set := range result.Sets {
		if set.Challenger < 0 || set.Target < 0 {
			return fmt.Errorf("%w: set scores cannot be negative", ErrInvalidInput)
		}
	}
	return nil
}

func (s *ChallengeService) publish(ctx context.Context, event ChallengeEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		logging.Default().WarnContext(ctx, "publish challenge event", "error", err, "type", event.Type, "challenge_id", event.ChallengeID)
	}
}

func (s *ChallengeService) appendLog(ctx context.Context, entry activitylog.Entry) {
	entry.CreatedAt = s.now().UTC()
	if entry.ID == "" {
		if id, err := s.idGen.NewID(); err == nil {
			entry.ID = id
		}
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		logging.Default().WarnContext(ctx, "append activity log", "error", err, "action", entry.Action)
	}
}
