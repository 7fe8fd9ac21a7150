package activitylog

import (
	"context"
	"time"
)

// Action names a recorded league event.
type Action string

const (
	ActionMemberJoined       Action = "memberJoined"
	ActionStatusChanged      Action = "statusChanged"
	ActionChallengeSent      Action = "challengeSent"
	ActionChallengeAccepted  Action = "challengeAccepted"
	ActionChallengeRejected  Action = "challengeRejected"
	ActionChallengeWithdrawn Action = "challengeWithdrawn"
	ActionChallengeCancelled Action = "challengeCancelled"
	ActionChallengeCompleted Action = "challengeCompleted"
	ActionChallengeExpired   Action = "challengeExpired"
	ActionRankSwap           Action = "rankSwap"
	ActionRejectionPenalty   Action = "rejectionPenalty"
)

// Entry is one audit-trail record. It is written after the fact and
// never read back to derive state.
type Entry struct {
	ID       string `db:"id" json:"id"`
	LeagueID string `db:"league_id" json:"leagueId"`
	ActorID  string `db:"actor_id" json:"actorId"`
	Action   Action `db:"action" json:"action"`

	// RelatedUserID is the other member involved, when the action has
	// a counterparty (the challenge opponent, the promoted member).
	RelatedUserID string `db:"related_user_id" json:"relatedUserId,omitempty"`

	// ChallengeID links the entry to a challenge when one is involved.
	ChallengeID string `db:"challenge_id" json:"challengeId,omitempty"`

	Metadata map[string]any `db:"-" json:"metadata,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByLeague(ctx context.Context, leagueID string, limit int) ([]Entry, error)
}
