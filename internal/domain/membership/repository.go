package membership

import (
	"context"
	"time"
)

// Repository describes membership persistence needs from use cases.
//
// Counter and status mutations are expressed as guarded single writes so
// concurrent challenge traffic cannot lose updates; implementations must
// not read-modify-write.
type Repository interface {
	// Create inserts m at the bottom of its league's ladder. The rank is
	// assigned inside the write (current max + 1) so concurrent joins
	// cannot claim the same position; the assigned rank is returned.
	Create(ctx context.Context, m Membership) (int, error)
	GetByUserAndLeague(ctx context.Context, userID, leagueID string) (Membership, bool, error)
	GetByRank(ctx context.Context, leagueID string, rank int) (Membership, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Membership, error)

	UpdateAvailability(ctx context.Context, leagueID, userID string, av Availability) error

	// UpdateStatus transitions status only when the current value still
	// matches from; reports whether a row changed.
	UpdateStatus(ctx context.Context, leagueID, userID string, from, to Status, outSince *time.Time, now time.Time) (bool, error)
	AddOutOfTownDays(ctx context.Context, leagueID, userID string, days int, now time.Time) error

	// ApplyActivityEvent performs the window reset-or-increment of
	// Window.Apply as one atomic write.
	ApplyActivityEvent(ctx context.Context, leagueID, userID string, event ActivityEvent, now time.Time) error
	ClearRejectionCount(ctx context.Context, leagueID, userID string, now time.Time) error

	// SwapRanks exchanges the rank numbers of two members of the same
	// league in a single transaction, snapshotting previous_rank on both.
	SwapRanks(ctx context.Context, leagueID, userA, userB string, now time.Time) error
}
