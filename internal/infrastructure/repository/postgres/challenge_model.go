package postgres

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
)

var challengeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type challengeTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	LeagueID        string         `db:"league_public_id"`
	ChallengerID    string         `db:"challenger_id"`
	TargetID        string         `db:"target_id"`
	ChallengerRank  int            `db:"challenger_rank"`
	TargetRank      int            `db:"target_rank"`
	Status          string         `db:"status"`
	ProposedSlots   []byte         `db:"proposed_slots"`
	AcceptedSlotID   sql.NullString `db:"accepted_slot_id"`
	RejectionReason  sql.NullString `db:"rejection_reason"`
	Result           []byte         `db:"result"`
	ScoreSubmittedBy sql.NullString `db:"score_submitted_by"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	ExpiresAt        time.Time      `db:"expires_at"`
	RespondedAt      *time.Time     `db:"responded_at"`
	ResolvedAt       *time.Time     `db:"resolved_at"`
}

type challengeInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeagueID       string    `db:"league_public_id"`
	ChallengerID   string    `db:"challenger_id"`
	TargetID       string    `db:"target_id"`
	ChallengerRank int       `db:"challenger_rank"`
	TargetRank     int       `db:"target_rank"`
	Status         string    `db:"status"`
	ProposedSlots  []byte    `db:"proposed_slots"`
	ExpiresAt      time.Time `db:"expires_at"`
}

func challengeFromRow(row challengeTableModel) (challenge.Challenge, error) {
	var slots []challenge.TimeSlot
	if len(row.ProposedSlots) > 0 {
		if err := challengeJSON.Unmarshal(row.ProposedSlots, &slots); err != nil {
			return challenge.Challenge{}, fmt.Errorf("decode proposed slots for challenge=%s: %w", row.PublicID, err)
		}
	}

	var result *challenge.Result
	if len(row.Result) > 0 {
		var decoded challenge.Result
		if err := challengeJSON.Unmarshal(row.Result, &decoded); err != nil {
			return challenge.Challenge{}, fmt.Errorf("decode result for challenge=%s: %w", row.PublicID, err)
		}
		result = &decoded
	}

	c := challenge.Challenge{
		ID:             row.PublicID,
		LeagueID:       row.LeagueID,
		ChallengerID:   row.ChallengerID,
		TargetID:       row.TargetID,
		ChallengerRank: row.ChallengerRank,
		TargetRank:     row.TargetRank,
		Status:         challenge.Status(row.Status),
		ProposedSlots:  slots,
		Result:         result,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		ExpiresAt:      row.ExpiresAt,
		RespondedAt:    row.RespondedAt,
		ResolvedAt:     row.ResolvedAt,
	}
	if row.AcceptedSlotID.Valid {
		slotID := row.AcceptedSlotID.String
		c.AcceptedSlotID = &slotID
	}
	if row.RejectionReason.Valid && row.RejectionReason.String != "" {
		reason := row.RejectionReason.String
		c.RejectionReason = &reason
	}
	if row.ScoreSubmittedBy.Valid {
		submitter := row.ScoreSubmittedBy.String
		c.ScoreSubmittedBy = &submitter
	}
	return c, nil
}
