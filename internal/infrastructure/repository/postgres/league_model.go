package postgres

import (
	"time"

	"github.com/spinhall/ladder-league/internal/domain/league"
)

type leagueTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	Name           string     `db:"name"`
	JoinCode       string     `db:"join_code"`
	SeasonStartsAt time.Time  `db:"season_starts_at"`
	SeasonEndsAt   time.Time  `db:"season_ends_at"`
	CreatedBy      string     `db:"created_by"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID       string    `db:"public_id"`
	Name           string    `db:"name"`
	JoinCode       string    `db:"join_code"`
	SeasonStartsAt time.Time `db:"season_starts_at"`
	SeasonEndsAt   time.Time `db:"season_ends_at"`
	CreatedBy      string    `db:"created_by"`
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:             row.PublicID,
		Name:           row.Name,
		JoinCode:       row.JoinCode,
		SeasonStartsAt: row.SeasonStartsAt,
		SeasonEndsAt:   row.SeasonEndsAt,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
