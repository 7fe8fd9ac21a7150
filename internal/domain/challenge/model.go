package challenge

import (
	"time"

	"github.com/spinhall/ladder-league/internal/domain/membership"
)

// Status is the lifecycle state of a challenge.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusWithdrawn Status = "withdrawn"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusExpired, StatusWithdrawn, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// PendingTTL is how long a challenge may stay pending before the
// expiry sweep closes it.
const PendingTTL = 7 * 24 * time.Hour

// TimeSlot is one concrete proposed playing time. Date is a civil date
// in ISO form (2006-01-02); combined with Slot it names a bookable
// window without carrying a timezone.
type TimeSlot struct {
	ID   string             `json:"id"`
	Date string             `json:"date"`
	Day  membership.Weekday `json:"day"`
	Slot membership.Slot    `json:"slot"`
}

// SetScore is the points of a single set, challenger first.
type SetScore struct {
	Challenger int `json:"challenger"`
	Target     int `json:"target"`
}

// Result records the reported outcome of a completed challenge.
type Result struct {
	WinnerID string     `json:"winnerId"`
	Sets     []SetScore `json:"sets"`
}

type Challenge struct {
	ID       string `db:"id" json:"id"`
	LeagueID string `db:"league_id" json:"leagueId"`

	ChallengerID string `db:"challenger_id" json:"challengerId"`
	TargetID     string `db:"target_id" json:"targetId"`

	// Rank snapshots taken at creation; the ladder may move afterwards.
	ChallengerRank int `db:"challenger_rank" json:"challengerRank"`
	TargetRank     int `db:"target_rank" json:"targetRank"`

	Status Status `db:"status" json:"status"`

	ProposedSlots []TimeSlot `db:"-" json:"proposedSlots"`

	// AcceptedSlotID is set when the target accepts with a chosen slot.
	AcceptedSlotID *string `db:"accepted_slot_id" json:"acceptedSlotId,omitempty"`

	// RejectionReason carries the target's optional note on reject.
	RejectionReason *string `db:"rejection_reason" json:"rejectionReason,omitempty"`

	Result *Result `db:"-" json:"result,omitempty"`

	// ScoreSubmittedBy is the participant who reported the result.
	ScoreSubmittedBy *string `db:"score_submitted_by" json:"scoreSubmittedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`

	// RespondedAt is set when the target accepts or rejects.
	RespondedAt *time.Time `db:"responded_at" json:"respondedAt,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
}

// Involves reports whether userID is a participant.
func (c Challenge) Involves(userID string) bool {
	return c.ChallengerID == userID || c.TargetID == userID
}

// Opponent returns the other participant relative to userID.
func (c Challenge) Opponent(userID string) string {
	if c.ChallengerID == userID {
		return c.TargetID
	}
	return c.ChallengerID
}

// SlotByID returns the proposed slot with the given id.
func (c Challenge) SlotByID(id string) (TimeSlot, bool) {
	for _, s := range c.ProposedSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}
