package postgres

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spinhall/ladder-league/internal/domain/membership"
)

var membershipJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type membershipTableModel struct {
	ID                  int64      `db:"id"`
	LeagueID            string     `db:"league_public_id"`
	UserID              string     `db:"user_id"`
	Rank                int        `db:"rank"`
	PreviousRank        *int       `db:"previous_rank"`
	SkillTier           string     `db:"skill_tier"`
	Status              string     `db:"status"`
	Availability        []byte     `db:"availability"`
	RecentAcceptances   int        `db:"recent_acceptances"`
	RecentRejections    int        `db:"recent_rejections"`
	RecentCancellations int        `db:"recent_cancellations"`
	ActivityWindowStart *time.Time `db:"activity_window_start"`
	OutOfTownDaysUsed   int        `db:"out_of_town_days_used"`
	OutOfTownSince      *time.Time `db:"out_of_town_since"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func membershipFromRow(row membershipTableModel) (membership.Membership, error) {
	var availability membership.Availability
	if len(row.Availability) > 0 {
		if err := membershipJSON.Unmarshal(row.Availability, &availability); err != nil {
			return membership.Membership{}, fmt.Errorf("decode availability for user=%s: %w", row.UserID, err)
		}
	}

	return membership.Membership{
		LeagueID:            row.LeagueID,
		UserID:              row.UserID,
		Rank:                row.Rank,
		PreviousRank:        row.PreviousRank,
		SkillTier:           membership.SkillTier(row.SkillTier),
		Status:              membership.Status(row.Status),
		Availability:        availability,
		RecentAcceptances:   row.RecentAcceptances,
		RecentRejections:    row.RecentRejections,
		RecentCancellations: row.RecentCancellations,
		ActivityWindowStart: row.ActivityWindowStart,
		OutOfTownDaysUsed:   row.OutOfTownDaysUsed,
		OutOfTownSince:      row.OutOfTownSince,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func encodeAvailability(av membership.Availability) ([]byte, error) {
	if av == nil {
		av = membership.Availability{}
	}
	payload, err := membershipJSON.Marshal(av)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	return payload, nil
}
