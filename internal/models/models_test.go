package models

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultScript(t *testing.T) {
	s, err := DefaultScript()
	if err != nil {
		t.Fatalf("Failed to load default script: %v", err)
	}

	if len(s.Dialogue) == 0 {
		t.Fatal("Expected dialogue lines")
	}
	want := []Move{Rock, Paper, Rock}
	if len(s.Rounds) != len(want) {
		t.Fatalf("Expected %d rounds, got %d", len(want), len(s.Rounds))
	}
	for i, r := range s.Rounds {
		if r.WinningMove != want[i] {
			t.Errorf("Round %d: expected winning move %s, got %s", r.Round, want[i], r.WinningMove)
		}
	}
	if !s.Rounds[2].Final {
		t.Error("Expected round 3 to be final")
	}
	if s.Timing.Credits != 5*time.Second {
		t.Errorf("Expected credits timer 5s, got %s", s.Timing.Credits)
	}
	if s.Timing.HandOverlayWindow != time.Second {
		t.Errorf("Expected hand overlay window 1s, got %s", s.Timing.HandOverlayWindow)
	}
}

func TestParseScriptDefaults(t *testing.T) {
	data := []byte(`
dialogue: ["hi"]
rounds:
  - {round: 1, winning_move: scissors, reveal_clip: r, punishment_clip: p, final: true}
ending_clip: e
clips:
  r: {url: r.mp4}
  p: {url: p.mp4}
  e: {url: e.mp4}
`)
	s, err := ParseScript(data)
	if err != nil {
		t.Fatalf("Failed to parse script: %v", err)
	}
	if s.Timing.Thinking != DefaultThinking {
		t.Errorf("Expected default thinking delay, got %s", s.Timing.Thinking)
	}
	if s.Timing.RevealInterval != DefaultRevealInterval {
		t.Errorf("Expected default reveal interval, got %s", s.Timing.RevealInterval)
	}
	if got := s.NarrationLocator("01"); got != "01" {
		t.Errorf("Expected bare narration locator, got %q", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
	}{
		{"no dialogue", `rounds: [{round: 1}]`, ErrEmptyDialogue},
		{"no rounds", `dialogue: ["a"]`, ErrNoRounds},
		{"missing clip", `
dialogue: ["a"]
rounds: [{round: 1, winning_move: rock, reveal_clip: x, punishment_clip: y, final: true}]
`, ErrUnknownClip},
	}

	for _, tc := range cases {
		_, err := ParseScript([]byte(tc.yaml))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseScriptRejectsEarlyFinal(t *testing.T) {
	data := []byte(`
dialogue: ["a"]
rounds:
  - {round: 1, winning_move: rock, reveal_clip: c, punishment_clip: c, final: true}
  - {round: 2, winning_move: rock, reveal_clip: c, punishment_clip: c, final: true}
ending_clip: c
clips: {c: {url: c.mp4}}
`)
	if _, err := ParseScript(data); err == nil {
		t.Fatal("Expected an error for a final round that is not last")
	}
}

func TestMoveRelations(t *testing.T) {
	for _, m := range Moves {
		if m.Counter().Beats() != m {
			t.Errorf("Counter of %s should beat %s", m, m)
		}
		if m.Beats().Counter() != m {
			t.Errorf("%s should be the counter of what it beats", m)
		}
	}
	if Rock.Counter() != Paper || Paper.Counter() != Scissors || Scissors.Counter() != Rock {
		t.Error("Unexpected counter table")
	}
	if Move("lizard").Valid() {
		t.Error("lizard should not be a valid move")
	}
}

func TestClipFor(t *testing.T) {
	s, err := DefaultScript()
	if err != nil {
		t.Fatalf("Failed to load default script: %v", err)
	}

	clip, err := s.ClipFor(VideoCue{Role: RolePunishment, Round: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if clip.URL != s.Clips["punishment-2"].URL {
		t.Errorf("Expected punishment-2 clip, got %s", clip.URL)
	}
	if _, err := s.ClipFor(VideoCue{Role: RoleReveal, Round: 9}); !errors.Is(err, ErrUnknownClip) {
		t.Errorf("Expected ErrUnknownClip, got %v", err)
	}
	if _, err := s.ClipFor(VideoCue{Role: RoleEnding}); err != nil {
		t.Errorf("Unexpected error for ending clip: %v", err)
	}
}

func TestNarrationCue(t *testing.T) {
	if got := NarrationCue(0); got != "01" {
		t.Errorf("Expected 01, got %s", got)
	}
	if got := NarrationCue(11); got != "12" {
		t.Errorf("Expected 12, got %s", got)
	}
}

func TestPhaseModal(t *testing.T) {
	if !VideoPhase(VideoCue{Role: RoleEnding}).Modal() {
		t.Error("video should be modal")
	}
	if PaywallPhase(true).ActiveRound() {
		t.Error("paywall is not part of the active round")
	}
	if !(Phase{Kind: PhaseThinking}).ActiveRound() {
		t.Error("thinking is part of the active round")
	}
	if got := VideoPhase(VideoCue{Role: RoleReveal, Round: 2}).String(); got != "video(reveal-2)" {
		t.Errorf("Unexpected phase string %q", got)
	}
}
