package membership

import "time"

type ActivityEvent string

const (
	EventAcceptance   ActivityEvent = "acceptance"
	EventRejection    ActivityEvent = "rejection"
	EventCancellation ActivityEvent = "cancellation"
)

// ActivityWindowLength bounds the rolling response-behavior counters.
// The window has a fixed origin: it resets wholesale on the first event
// after expiry rather than sliding per event.
const ActivityWindowLength = 30 * 24 * time.Hour

// RejectionPenaltyThreshold is how many counted rejections, with zero
// acceptances in the same window, cost the rejecter one rank.
const RejectionPenaltyThreshold = 3

// RejectionDriftExemption skips the rejection counter when the challenger
// sits this many ranks or more below the rejecting member; rankings may
// have drifted since the challenge was sent.
const RejectionDriftExemption = 6

// Window is the rolling activity-counter state of one membership.
type Window struct {
	Start         *time.Time
	Acceptances   int
	Rejections    int
	Cancellations int
}

func (w Window) Expired(now time.Time) bool {
	if w.Start == nil {
		return true
	}
	return now.Sub(*w.Start) > ActivityWindowLength
}

// Apply returns the window after counting one event: a reset (all counters
// zeroed, the event's counter set to 1, Start anchored at now) when the
// window is missing or expired, otherwise a single-counter increment.
func (w Window) Apply(event ActivityEvent, now time.Time) Window {
	if w.Expired(now) {
		next := Window{Start: &now}
		next.bump(event)
		return next
	}

	next := w
	next.bump(event)
	return next
}

func (w *Window) bump(event ActivityEvent) {
	switch event {
	case EventAcceptance:
		w.Acceptances++
	case EventRejection:
		w.Rejections++
	case EventCancellation:
		w.Cancellations++
	}
}

// PenaltyDue reports whether the window has crossed the rejection-penalty
// threshold without a single acceptance to offset it.
func (w Window) PenaltyDue() bool {
	return w.Rejections >= RejectionPenaltyThreshold && w.Acceptances == 0
}

// RejectionExempt reports whether a rejection should not count against the
// rejecter because the challenger is far enough below them on the ladder.
func RejectionExempt(challengerRank, rejecterRank int) bool {
	return challengerRank-rejecterRank >= RejectionDriftExemption
}
