package engine

import (
	"testing"

	"github.com/tatianab/rigged-rps/internal/models"
)

func testScript(t *testing.T) *models.Script {
	t.Helper()
	s, err := models.DefaultScript()
	if err != nil {
		t.Fatalf("Failed to load default script: %v", err)
	}
	return s
}

func TestPolicyForcedVideo(t *testing.T) {
	p := NewPolicy(testScript(t), NewRand(1))

	cases := []struct {
		round   int
		winning models.Move
		cpu     models.Move
	}{
		{1, models.Rock, models.Scissors},
		{2, models.Paper, models.Rock},
		{3, models.Rock, models.Scissors},
	}
	for _, tc := range cases {
		cpu, forced := p.ChooseCPUMove(tc.round, tc.winning, false)
		if !forced {
			t.Errorf("round %d: expected %s to trigger the forced video", tc.round, tc.winning)
		}
		if cpu != tc.cpu {
			t.Errorf("round %d: expected hard-set cpu move %s, got %s", tc.round, tc.cpu, cpu)
		}
		if !p.Triggers(tc.round, tc.winning, false) {
			t.Errorf("round %d: Triggers disagrees with ChooseCPUMove", tc.round)
		}
	}
}

func TestPolicyCountersEverythingElse(t *testing.T) {
	p := NewPolicy(testScript(t), NewRand(1))

	for round := 1; round <= 3; round++ {
		for _, move := range models.Moves {
			for _, seen := range []bool{false, true} {
				if p.Triggers(round, move, seen) {
					continue
				}
				for i := 0; i < 100; i++ {
					cpu, forced := p.ChooseCPUMove(round, move, seen)
					if forced {
						t.Fatalf("round %d move %s seen=%t: unexpected forced video", round, move, seen)
					}
					if Resolve(move, cpu) != models.Lose {
						t.Fatalf("round %d move %s: cpu played %s, player did not lose", round, move, cpu)
					}
				}
			}
		}
	}

	if cpu, _ := p.ChooseCPUMove(1, models.Paper, false); cpu != models.Scissors {
		t.Errorf("Expected scissors against paper, got %s", cpu)
	}
	if cpu, _ := p.ChooseCPUMove(1, models.Scissors, false); cpu != models.Rock {
		t.Errorf("Expected rock against scissors, got %s", cpu)
	}
}

func TestPolicyUnscriptedRoundIsUniform(t *testing.T) {
	p := NewPolicy(testScript(t), NewRand(42))

	const trials = 30000
	counts := map[models.Move]int{}
	for i := 0; i < trials; i++ {
		cpu, forced := p.ChooseCPUMove(4, models.Rock, false)
		if forced {
			t.Fatal("round 4 must never force a video")
		}
		counts[cpu]++
	}

	// Expected 10000 each; sigma is about 82.
	for _, m := range models.Moves {
		if n := counts[m]; n < 9400 || n > 10600 {
			t.Errorf("%s chosen %d times out of %d", m, n, trials)
		}
	}
}
