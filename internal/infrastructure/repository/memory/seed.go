package memory

import (
	"time"

	"github.com/spinhall/ladder-league/internal/domain/league"
	"github.com/spinhall/ladder-league/internal/domain/membership"
)

const (
	LeagueIDOfficePingPong = "office-ping-pong-2026"
	LeagueJoinCodePingPong = "PINGPONG"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:             LeagueIDOfficePingPong,
			Name:           "Office Ping Pong",
			JoinCode:       LeagueJoinCodePingPong,
			SeasonStartsAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			SeasonEndsAt:   time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC),
			CreatedBy:      "user-1",
			CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// SeedMembers is a five-player ladder with overlapping lunch and
// after-work availability.
func SeedMembers() []membership.Membership {
	createdAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	av := func(days ...membership.Weekday) membership.Availability {
		out := make(membership.Availability, len(days))
		for _, day := range days {
			out[day] = map[membership.Slot]bool{
				membership.SlotLunch:     true,
				membership.SlotAfterWork: true,
			}
		}
		return out
	}

	members := []membership.Membership{
		{UserID: "user-1", Rank: 1, SkillTier: membership.TierTop, Availability: av(membership.Monday, membership.Wednesday)},
		{UserID: "user-2", Rank: 2, SkillTier: membership.TierTop, Availability: av(membership.Monday, membership.Tuesday)},
		{UserID: "user-3", Rank: 3, SkillTier: membership.TierMiddle, Availability: av(membership.Tuesday, membership.Thursday)},
		{UserID: "user-4", Rank: 4, SkillTier: membership.TierMiddle, Availability: av(membership.Wednesday, membership.Friday)},
		{UserID: "user-5", Rank: 5, SkillTier: membership.TierBottom, Availability: av(membership.Monday, membership.Friday)},
	}
	for i := range members {
		members[i].LeagueID = LeagueIDOfficePingPong
		members[i].Status = membership.StatusActive
		members[i].CreatedAt = createdAt
		members[i].UpdatedAt = createdAt
	}
	return members
}
