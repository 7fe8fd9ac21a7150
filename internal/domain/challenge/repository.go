package challenge

import (
	"context"
	"time"
)

// Repository persists challenges.
//
// Every Mark* method is a conditional status transition: it writes only
// when the stored status still matches the transition's starting state,
// and reports whether a row changed. Callers treat false as a lost race.
type Repository interface {
	Create(ctx context.Context, c Challenge) error
	GetByID(ctx context.Context, id string) (Challenge, bool, error)
	ListByParticipant(ctx context.Context, leagueID, userID string) ([]Challenge, error)
	ListPendingIncoming(ctx context.Context, leagueID, userID string) ([]Challenge, error)

	CountOpenBetween(ctx context.Context, leagueID, userA, userB string) (int, error)
	CountPendingOutgoing(ctx context.Context, leagueID, userID string) (int, error)
	CountPendingIncoming(ctx context.Context, leagueID, userID string) (int, error)

	MarkAccepted(ctx context.Context, id, slotID string, now time.Time) (bool, error)
	MarkRejected(ctx context.Context, id, reason string, now time.Time) (bool, error)
	MarkWithdrawn(ctx context.Context, id string, now time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id string, now time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id string, result Result, submittedBy string, now time.Time) (bool, error)

	// ExpirePendingBefore closes every pending challenge whose
	// expires_at is at or before cutoff, returning how many changed.
	// Safe to call repeatedly.
	ExpirePendingBefore(ctx context.Context, leagueID string, cutoff, now time.Time) (int64, error)
}
