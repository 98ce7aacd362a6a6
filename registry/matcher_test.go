package registry

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*", "board-topic-created", true},
		{"*", "tickets-sold", true},

		{"tickets-sold", "tickets-sold", true},
		{"tickets-sold", "ticket-checked-in", false},

		{"board-*", "board-topic-created", true},
		{"board-*", "board-posting-hidden", true},
		{"board-*", "shop-order-paid", false},
		{"board-*", "board", false},

		{"*-created", "board-topic-created", true},
		{"*-created", "page-created", true},
		{"*-created", "page-deleted", false},

		{"tourney-*-ready", "tourney-match-ready", true},
		{"tourney-*-ready", "tourney-participant-ready", true},
		{"tourney-*-ready", "tourney-match-reset", false},
		{"tourney-match-score-*", "tourney-match-score-confirmed", true},

		{"", "", true},
		{"user", "user-logged-in", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_vs_"+tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.name); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}
