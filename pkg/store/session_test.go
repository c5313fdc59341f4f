package store

import (
	"testing"
	"time"
)

func TestRecentTurns(t *testing.T) {
	s := NewSession("s1", nil, time.Now())
	for _, text := range []string{"one", "two", "three"} {
		s.RecordTurn(Turn{UserText: text, Kind: TurnKindText})
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"window smaller than history", 2, []string{"two", "three"}},
		{"window covers everything", 5, []string{"one", "two", "three"}},
		{"zero window", 0, nil},
		{"negative window", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.RecentTurns(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("RecentTurns(%d) returned %d turns, want %d", tt.n, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].UserText != tt.want[i] {
					t.Errorf("turn[%d] = %q, want %q", i, got[i].UserText, tt.want[i])
				}
			}
		})
	}
}

func TestInterruptCounts(t *testing.T) {
	s := NewSession("s1", nil, time.Now())
	if got := s.Interrupt(); got != 1 {
		t.Errorf("first Interrupt() = %d, want 1", got)
	}
	if got := s.Interrupt(); got != 2 {
		t.Errorf("second Interrupt() = %d, want 2", got)
	}
	if got := s.InterruptCount(); got != 2 {
		t.Errorf("InterruptCount() = %d, want 2", got)
	}
}

func TestReset(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	s := NewSession("s1", nil, created)
	s.RecordTurn(Turn{UserText: "hello"})
	s.Interrupt()

	now := time.Now()
	s.Reset(now)

	if s.TurnCount() != 0 {
		t.Errorf("TurnCount() = %d after Reset, want 0", s.TurnCount())
	}
	if s.InterruptCount() != 0 {
		t.Errorf("InterruptCount() = %d after Reset, want 0", s.InterruptCount())
	}
	if !s.LastActivity().Equal(now) {
		t.Errorf("LastActivity() = %v after Reset, want %v", s.LastActivity(), now)
	}
}
