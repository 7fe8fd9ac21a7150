package league

import (
	"fmt"
	"time"
)

// League is a single office ladder with a shareable join code.
// The join code is immutable once issued.
type League struct {
	ID             string
	Name           string
	JoinCode       string
	SeasonStartsAt time.Time
	SeasonEndsAt   time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.JoinCode == "" {
		return fmt.Errorf("league join code is required")
	}
	if !l.SeasonEndsAt.IsZero() && l.SeasonEndsAt.Before(l.SeasonStartsAt) {
		return fmt.Errorf("league season cannot end before it starts")
	}

	return nil
}

func (l League) SeasonActive(now time.Time) bool {
	if l.SeasonStartsAt.IsZero() || l.SeasonEndsAt.IsZero() {
		return true
	}
	return !now.Before(l.SeasonStartsAt) && !now.After(l.SeasonEndsAt)
}
