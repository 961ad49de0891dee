package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain text lowered and trimmed",
			raw:      "  Start  ",
			expected: "start",
		},
		{
			name:     "mention prefix stripped",
			raw:      "[club123456|@blackjack_bot] start",
			expected: "start",
		},
		{
			name:     "mention prefix with display name",
			raw:      "[club42|Dealer Bot]  RULES",
			expected: "rules",
		},
		{
			name:     "mention in the middle is kept",
			raw:      "ask [club42|Dealer Bot] nicely",
			expected: "ask [club42|dealer bot] nicely",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := CleanText(test.raw)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("CleanText(%q) mismatch (-expected +got):\n%s", test.raw, diff)
			}
		})
	}
}

func TestResolveEvent(t *testing.T) {
	tests := []struct {
		text     string
		expected GameEvent
	}{
		{"", EventOffer},
		{"start", EventStart},
		{"rules", EventRules},
		{"join", EventRegister},
		{"i'm in", EventRegister},
		{"pass", EventUnregister},
		{"100", EventBet},
		{"007", EventBet},
		{"all in", EventAllIn},
		{"hit", EventHit},
		{"hit me", EventHit},
		{"stand", EventStand},
		{"enough", EventStand},
		{"hand", EventHand},
		{"cash", EventCash},
		{"abort", EventAbort},
		{"stop this", EventCancel},
		{"stats", EventStats},
		{"this damn casino robbed me", EventComplain},
		{"converta tempus", EventRestoreCash},
		{"what is going on here", EventUnknown},
		{"100 please", EventUnknown},
		{"-5", EventUnknown},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			if got := ResolveEvent(test.text); got != test.expected {
				t.Errorf("ResolveEvent(%q) = %s, expected %s", test.text, got, test.expected)
			}
		})
	}
}

func TestParseStageRoundTrip(t *testing.T) {
	stages := []GameStage{
		StageInactive, StageGathering, StageBetting,
		StageDealingPlayers, StageDealingDealer, StageResults,
	}
	for _, stage := range stages {
		parsed, err := ParseStage(stage.String())
		if err != nil {
			t.Fatalf("ParseStage(%q) failed: %s", stage.String(), err)
		}
		if parsed != stage {
			t.Errorf("ParseStage(%q) = %s", stage.String(), parsed)
		}
	}
	if _, err := ParseStage("shuffling"); err == nil {
		t.Error("ParseStage must reject unknown stage names")
	}
}
