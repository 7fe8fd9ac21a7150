package membership

import (
	"testing"
	"time"
)

func TestWindowApply(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		window  func() Window
		event   ActivityEvent
		want    Window
		wantNew bool // Start re-anchored at now
	}{
		{
			name:    "first event anchors window",
			window:  func() Window { return Window{} },
			event:   EventRejection,
			want:    Window{Rejections: 1},
			wantNew: true,
		},
		{
			name: "increment inside window",
			window: func() Window {
				start := now.Add(-10 * 24 * time.Hour)
				return Window{Start: &start, Rejections: 2}
			},
			event: EventRejection,
			want:  Window{Rejections: 3},
		},
		{
			name: "acceptance leaves other counters alone",
			window: func() Window {
				start := now.Add(-1 * 24 * time.Hour)
				return Window{Start: &start, Rejections: 2, Cancellations: 1}
			},
			event: EventAcceptance,
			want:  Window{Acceptances: 1, Rejections: 2, Cancellations: 1},
		},
		{
			name: "thirty-one day old window resets wholesale",
			window: func() Window {
				start := now.Add(-31 * 24 * time.Hour)
				return Window{Start: &start, Acceptances: 4, Rejections: 2, Cancellations: 1}
			},
			event:   EventRejection,
			want:    Window{Rejections: 1},
			wantNew: true,
		},
		{
			name: "exactly thirty days is still inside",
			window: func() Window {
				start := now.Add(-ActivityWindowLength)
				return Window{Start: &start, Rejections: 1}
			},
			event: EventRejection,
			want:  Window{Rejections: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := tt.window()
			got := before.Apply(tt.event, now)

			if got.Acceptances != tt.want.Acceptances ||
				got.Rejections != tt.want.Rejections ||
				got.Cancellations != tt.want.Cancellations {
				t.Fatalf("counters = %d/%d/%d, want %d/%d/%d",
					got.Acceptances, got.Rejections, got.Cancellations,
					tt.want.Acceptances, tt.want.Rejections, tt.want.Cancellations)
			}
			if got.Start == nil {
				t.Fatal("Start must never be nil after Apply")
			}
			if tt.wantNew && !got.Start.Equal(now) {
				t.Fatalf("Start = %v, want re-anchored at %v", got.Start, now)
			}
			if !tt.wantNew && !got.Start.Equal(*before.Start) {
				t.Fatalf("Start moved to %v, want unchanged %v", got.Start, before.Start)
			}
		})
	}
}

func TestWindowPenaltyDue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window Window
		want   bool
	}{
		{"three rejections no acceptances", Window{Rejections: 3}, true},
		{"two rejections", Window{Rejections: 2}, false},
		{"acceptance offsets rejections", Window{Rejections: 3, Acceptances: 1}, false},
		{"cancellations do not offset", Window{Rejections: 3, Cancellations: 2}, true},
		{"empty window", Window{}, false},
	}
	for _, tt := range tests {
		if got := tt.window.PenaltyDue(); got != tt.want {
			t.Errorf("%s: PenaltyDue() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRejectionExempt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		challengerRank int
		rejecterRank   int
		want           bool
	}{
		{"challenger six below", 10, 4, true},
		{"challenger seven below", 11, 4, true},
		{"challenger five below", 9, 4, false},
		{"challenger above rejecter", 2, 4, false},
		{"adjacent ranks", 5, 4, false},
	}
	for _, tt := range tests {
		if got := RejectionExempt(tt.challengerRank, tt.rejecterRank); got != tt.want {
			t.Errorf("%s: RejectionExempt(%d, %d) = %v, want %v",
				tt.name, tt.challengerRank, tt.rejecterRank, got, tt.want)
		}
	}
}
