package membership

import "time"

type SkillTier string

const (
	TierTop    SkillTier = "top"
	TierMiddle SkillTier = "middle"
	TierBottom SkillTier = "bottom"
)

var AllSkillTiers = map[SkillTier]struct{}{
	TierTop:    {},
	TierMiddle: {},
	TierBottom: {},
}

type Status string

const (
	StatusActive    Status = "active"
	StatusOutOfTown Status = "oot"
	StatusInactive  Status = "inactive"
)

var AllStatuses = map[Status]struct{}{
	StatusActive:    {},
	StatusOutOfTown: {},
	StatusInactive:  {},
}

type RankMovement string

const (
	RankMovementUp   RankMovement = "up"
	RankMovementDown RankMovement = "down"
	RankMovementSame RankMovement = "same"
	RankMovementNew  RankMovement = "new"
)

// OutOfTownAllowanceDays caps how long a member may sit out-of-town per season.
const OutOfTownAllowanceDays = 14

// Membership is one player's ladder record in one league. Ranks start at 1
// (best) and form a dense permutation 1..N per league; a new member always
// takes rank N+1. SkillTier is self-declared at join time and only informs
// initial placement.
type Membership struct {
	LeagueID     string
	UserID       string
	Rank         int
	PreviousRank *int
	SkillTier    SkillTier
	Status       Status
	Availability Availability

	RecentAcceptances   int
	RecentRejections    int
	RecentCancellations int
	ActivityWindowStart *time.Time

	OutOfTownDaysUsed int
	OutOfTownSince    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Membership) Window() Window {
	return Window{
		Start:         m.ActivityWindowStart,
		Acceptances:   m.RecentAcceptances,
		Rejections:    m.RecentRejections,
		Cancellations: m.RecentCancellations,
	}
}

func ResolveRankMovement(currentRank int, previousRank *int) RankMovement {
	if currentRank <= 0 {
		return RankMovementNew
	}
	if previousRank == nil || *previousRank <= 0 {
		return RankMovementNew
	}
	if currentRank < *previousRank {
		return RankMovementUp
	}
	if currentRank > *previousRank {
		return RankMovementDown
	}
	return RankMovementSame
}
