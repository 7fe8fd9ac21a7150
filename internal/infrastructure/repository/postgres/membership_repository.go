package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spinhall/ladder-league/internal/domain/membership"
	qb "github.com/spinhall/ladder-league/internal/platform/querybuilder"
)

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m membership.Membership) (int, error) {
	availability, err := encodeAvailability(m.Availability)
	if err != nil {
		return 0, err
	}
	// rank is assigned by the insert itself: current ladder max + 1
	query, args, err := qb.InsertInto("league_members").
		Columns("league_public_id", "user_id", "rank", "skill_tier", "status", "availability").
		Values(
			m.LeagueID,
			m.UserID,
			qb.Expr("(SELECT COALESCE(MAX(rank), 0) + 1 FROM league_members WHERE league_public_id = ?)", m.LeagueID),
			string(m.SkillTier),
			string(m.Status),
			availability,
		).
		Suffix("RETURNING rank").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build create membership query: %w", err)
	}
	var rank int
	if err := r.db.GetContext(ctx, &rank, query, args...); err != nil {
		return 0, fmt.Errorf("create membership: %w", err)
	}

	return rank, nil
}

func (r *MembershipRepository) GetByUserAndLeague(ctx context.Context, userID, leagueID string) (membership.Membership, bool, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return membership.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}
	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.Membership{}, false, nil
		}
		return membership.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	m, err := membershipFromRow(row)
	if err != nil {
		return membership.Membership{}, false, err
	}
	return m, true, nil
}

func (r *MembershipRepository) GetByRank(ctx context.Context, leagueID string, rank int) (membership.Membership, bool, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("rank", rank),
		).
		ToSQL()
	if err != nil {
		return membership.Membership{}, false, fmt.Errorf("build get membership by rank query: %w", err)
	}
	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.Membership{}, false, nil
		}
		return membership.Membership{}, false, fmt.Errorf("get membership by rank: %w", err)
	}

	m, err := membershipFromRow(row)
	if err != nil {
		return membership.Membership{}, false, err
	}
	return m, true, nil
}

func (r *MembershipRepository) ListByLeague(ctx context.Context, leagueID string) ([]membership.Membership, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		m, err := membershipFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MembershipRepository) UpdateAvailability(ctx context.Context, leagueID, userID string, av membership.Availability) error {
	payload, err := encodeAvailability(av)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("league_members").
		Set("availability", payload).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update availability query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update availability: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update availability: not found")
	}

	return nil
}

func (r *MembershipRepository) UpdateStatus(ctx context.Context, leagueID, userID string, from, to membership.Status, outSince *time.Time, now time.Time) (bool, error) {
	query, args, err := qb.Update("league_members").
		Set("status", string(to)).
		Set("out_of_town_since", outSince).
		Set("updated_at", now).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected update status: %w", err)
	}
	return affected > 0, nil
}

func (r *MembershipRepository) AddOutOfTownDays(ctx context.Context, leagueID, userID string, days int, now time.Time) error {
	query, args, err := qb.Update("league_members").
		SetExpr("out_of_town_days_used", "out_of_town_days_used + ?", days).
		Set("updated_at", now).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add out-of-town days query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add out-of-town days: %w", err)
	}

	return nil
}

// ApplyActivityEvent does the window reset-or-increment in one
// statement so concurrent events cannot interleave a read and a write.
// A window older than 30 days restarts at now with only this event
// counted.
func (r *MembershipRepository) ApplyActivityEvent(ctx context.Context, leagueID, userID string, event membership.ActivityEvent, now time.Time) error {
	counters := map[membership.ActivityEvent]string{
		membership.EventAcceptance:   "recent_acceptances",
		membership.EventRejection:    "recent_rejections",
		membership.EventCancellation: "recent_cancellations",
	}
	eventColumn, ok := counters[event]
	if !ok {
		return fmt.Errorf("unknown activity event %q", event)
	}

	cutoff := now.Add(-membership.ActivityWindowLength)
	update := qb.Update("league_members")
	for _, column := range []string{"recent_acceptances", "recent_rejections", "recent_cancellations"} {
		if column == eventColumn {
			update = update.SetExpr(column,
				"CASE WHEN activity_window_start IS NULL OR activity_window_start < ? THEN 1 ELSE "+column+" + 1 END",
				cutoff)
			continue
		}
		update = update.SetExpr(column,
			"CASE WHEN activity_window_start IS NULL OR activity_window_start < ? THEN 0 ELSE "+column+" END",
			cutoff)
	}
	query, args, err := update.
		SetExpr("activity_window_start",
			"CASE WHEN activity_window_start IS NULL OR activity_window_start < ? THEN ? ELSE activity_window_start END",
			cutoff, now).
		Set("updated_at", now).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build apply activity event query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply activity event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected apply activity event: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("apply activity event: not found")
	}

	return nil
}

func (r *MembershipRepository) ClearRejectionCount(ctx context.Context, leagueID, userID string, now time.Time) error {
	query, args, err := qb.Update("league_members").
		Set("recent_rejections", 0).
		Set("updated_at", now).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear rejection count query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear rejection count: %w", err)
	}

	return nil
}

// SwapRanks locks both rows, then exchanges ranks in one statement so
// the ladder never shows a duplicate rank to another transaction.
func (r *MembershipRepository) SwapRanks(ctx context.Context, leagueID, userA, userB string, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx swap ranks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rows []struct {
		UserID string `db:"user_id"`
		Rank   int    `db:"rank"`
	}
	lockQuery := `SELECT user_id, rank FROM league_members WHERE league_public_id = $1 AND user_id IN ($2, $3) FOR UPDATE`
	if err := tx.SelectContext(ctx, &rows, lockQuery, leagueID, userA, userB); err != nil {
		return fmt.Errorf("lock memberships for swap: %w", err)
	}
	if len(rows) != 2 {
		return fmt.Errorf("swap ranks: membership not found")
	}

	ranks := map[string]int{rows[0].UserID: rows[0].Rank, rows[1].UserID: rows[1].Rank}
	swapQuery := `UPDATE league_members
SET previous_rank = rank,
    rank = CASE user_id WHEN $2 THEN $4 WHEN $3 THEN $5 END,
    updated_at = $6
WHERE league_public_id = $1 AND user_id IN ($2, $3)`
	if _, err := tx.ExecContext(ctx, swapQuery, leagueID, userA, userB, ranks[userB], ranks[userA], now); err != nil {
		return fmt.Errorf("swap ranks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swap ranks tx: %w", err)
	}
	return nil
}
