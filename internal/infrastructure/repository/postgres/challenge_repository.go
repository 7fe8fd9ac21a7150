package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spinhall/ladder-league/internal/domain/challenge"
	qb "github.com/spinhall/ladder-league/internal/platform/querybuilder"
)

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(ctx context.Context, c challenge.Challenge) error {
	slots, err := challengeJSON.Marshal(c.ProposedSlots)
	if err != nil {
		return fmt.Errorf("encode proposed slots: %w", err)
	}
	insertModel := challengeInsertModel{
		PublicID:       c.ID,
		LeagueID:       c.LeagueID,
		ChallengerID:   c.ChallengerID,
		TargetID:       c.TargetID,
		ChallengerRank: c.ChallengerRank,
		TargetRank:     c.TargetRank,
		Status:         string(c.Status),
		ProposedSlots:  slots,
		ExpiresAt:      c.ExpiresAt,
	}
	query, args, err := qb.InsertModel("challenges", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create challenge query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create challenge: %w", err)
	}

	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (challenge.Challenge, bool, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return challenge.Challenge{}, false, fmt.Errorf("build get challenge query: %w", err)
	}
	var row challengeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, fmt.Errorf("get challenge: %w", err)
	}

	c, err := challengeFromRow(row)
	if err != nil {
		return challenge.Challenge{}, false, err
	}
	return c, true, nil
}

func (r *ChallengeRepository) ListByParticipant(ctx context.Context, leagueID, userID string) ([]challenge.Challenge, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("(challenger_id = ? OR target_id = ?)", userID, userID),
		).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list challenges by participant query: %w", err)
	}

	return r.selectChallenges(ctx, query, args)
}

func (r *ChallengeRepository) ListPendingIncoming(ctx context.Context, leagueID, userID string) ([]challenge.Challenge, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("target_id", userID),
			qb.Eq("status", string(challenge.StatusPending)),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending incoming query: %w", err)
	}

	return r.selectChallenges(ctx, query, args)
}

func (r *ChallengeRepository) selectChallenges(ctx context.Context, query string, args []any) ([]challenge.Challenge, error) {
	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		c, err := challengeFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ChallengeRepository) CountOpenBetween(ctx context.Context, leagueID, userA, userB string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("challenges").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.In("status", []any{string(challenge.StatusPending), string(challenge.StatusAccepted)}),
			qb.Expr("((challenger_id = ? AND target_id = ?) OR (challenger_id = ? AND target_id = ?))", userA, userB, userB, userA),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count open between query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count open challenges between users: %w", err)
	}
	return count, nil
}

func (r *ChallengeRepository) CountPendingOutgoing(ctx context.Context, leagueID, userID string) (int, error) {
	return r.countPending(ctx, leagueID, "challenger_id", userID)
}

func (r *ChallengeRepository) CountPendingIncoming(ctx context.Context, leagueID, userID string) (int, error) {
	return r.countPending(ctx, leagueID, "target_id", userID)
}

func (r *ChallengeRepository) countPending(ctx context.Context, leagueID, column, userID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("challenges").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq(column, userID),
			qb.Eq("status", string(challenge.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count pending query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count pending challenges: %w", err)
	}
	return count, nil
}

func (r *ChallengeRepository) MarkAccepted(ctx context.Context, id, slotID string, now time.Time) (bool, error) {
	return r.transition(ctx, id, challenge.StatusPending, func(update *qb.UpdateBuilder) *qb.UpdateBuilder {
		return update.
			Set("status", string(challenge.StatusAccepted)).
			Set("accepted_slot_id", slotID).
			Set("responded_at", now)
	}, now)
}

func (r *ChallengeRepository) MarkRejected(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	return r.transition(ctx, id, challenge.StatusPending, func(update *qb.UpdateBuilder) *qb.UpdateBuilder {
		return update.
			Set("status", string(challenge.StatusRejected)).
			Set("rejection_reason", reason).
			Set("responded_at", now).
			Set("resolved_at", now)
	}, now)
}

func (r *ChallengeRepository) MarkWithdrawn(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.transition(ctx, id, challenge.StatusPending, func(update *qb.UpdateBuilder) *qb.UpdateBuilder {
		return update.
			Set("status", string(challenge.StatusWithdrawn)).
			Set("resolved_at", now)
	}, now)
}

func (r *ChallengeRepository) MarkCancelled(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.transition(ctx, id, challenge.StatusAccepted, func(update *qb.UpdateBuilder) *qb.UpdateBuilder {
		return update.
			Set("status", string(challenge.StatusCancelled)).
			Set("resolved_at", now)
	}, now)
}

func (r *ChallengeRepository) MarkCompleted(ctx context.Context, id string, result challenge.Result, submittedBy string, now time.Time) (bool, error) {
	payload, err := challengeJSON.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("encode result: %w", err)
	}
	return r.transition(ctx, id, challenge.StatusAccepted, func(update *qb.UpdateBuilder) *qb.UpdateBuilder {
		return update.
			Set("status", string(challenge.StatusCompleted)).
			Set("result", payload).
			Set("score_submitted_by", submittedBy).
			Set("resolved_at", now)
	}, now)
}

// transition is the single conditional write behind every Mark method.
// The WHERE clause on the starting status is what guarantees at most
// one winner between concurrent responses.
func (r *ChallengeRepository) transition(ctx context.Context, id string, from challenge.Status, mutate func(*qb.UpdateBuilder) *qb.UpdateBuilder, now time.Time) (bool, error) {
	query, args, err := mutate(qb.Update("challenges")).
		Set("updated_at", now).
		Where(
			qb.Eq("public_id", id),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build challenge transition query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("challenge transition: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected challenge transition: %w", err)
	}
	return affected > 0, nil
}

func (r *ChallengeRepository) ExpirePendingBefore(ctx context.Context, leagueID string, cutoff, now time.Time) (int64, error) {
	query, args, err := qb.Update("challenges").
		Set("status", string(challenge.StatusExpired)).
		Set("resolved_at", now).
		Set("updated_at", now).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("status", string(challenge.StatusPending)),
			qb.Expr("expires_at <= ?", cutoff),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build expire pending query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire pending challenges: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected expire pending challenges: %w", err)
	}
	return affected, nil
}
