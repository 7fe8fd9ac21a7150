package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	qb "github.com/spinhall/ladder-league/internal/platform/querybuilder"
)

type activityLogTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	LeagueID      string    `db:"league_public_id"`
	ActorID       string    `db:"actor_id"`
	Action        string    `db:"action"`
	RelatedUserID string    `db:"related_user_id"`
	ChallengeID   string    `db:"challenge_public_id"`
	Metadata      []byte    `db:"metadata"`
	CreatedAt     time.Time `db:"created_at"`
}

type activityLogInsertModel struct {
	PublicID      string `db:"public_id"`
	LeagueID      string `db:"league_public_id"`
	ActorID       string `db:"actor_id"`
	Action        string `db:"action"`
	RelatedUserID string `db:"related_user_id"`
	ChallengeID   string `db:"challenge_public_id"`
	Metadata      []byte `db:"metadata"`
}

type ActivityLogRepository struct {
	db *sqlx.DB
}

func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, e activitylog.Entry) error {
	metadata, err := challengeJSON.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode activity log metadata: %w", err)
	}
	insertModel := activityLogInsertModel{
		PublicID:      e.ID,
		LeagueID:      e.LeagueID,
		ActorID:       e.ActorID,
		Action:        string(e.Action),
		RelatedUserID: e.RelatedUserID,
		ChallengeID:   e.ChallengeID,
		Metadata:      metadata,
	}
	query, args, err := qb.InsertModel("activity_logs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build append activity log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}

	return nil
}

func (r *ActivityLogRepository) ListByLeague(ctx context.Context, leagueID string, limit int) ([]activitylog.Entry, error) {
	builder := qb.Select("*").From("activity_logs").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list activity logs query: %w", err)
	}

	var rows []activityLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}

	out := make([]activitylog.Entry, 0, len(rows))
	for _, row := range rows {
		entry := activitylog.Entry{
			ID:            row.PublicID,
			LeagueID:      row.LeagueID,
			ActorID:       row.ActorID,
			Action:        activitylog.Action(row.Action),
			RelatedUserID: row.RelatedUserID,
			ChallengeID:   row.ChallengeID,
			CreatedAt:     row.CreatedAt,
		}
		if len(row.Metadata) > 0 {
			if err := challengeJSON.Unmarshal(row.Metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("decode activity log metadata for entry=%s: %w", row.PublicID, err)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
