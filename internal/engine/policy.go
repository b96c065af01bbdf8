package engine

import (
	"math/rand/v2"
	"time"

	"github.com/tatianab/rigged-rps/internal/models"
)

// Rand is the source used for unscripted rounds.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG source. A zero seed seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// Policy picks the CPU move. Scripted rounds are rigged: the round's
// winning move defers to a reveal clip the first time it is played, and
// anything else is countered. Rounds past the script are fair.
type Policy struct {
	script *models.Script
	rnd    Rand
}

func NewPolicy(script *models.Script, rnd Rand) *Policy {
	if rnd == nil {
		rnd = NewRand(0)
	}
	return &Policy{script: script, rnd: rnd}
}

// Triggers reports whether player's move must be deferred to the round's
// reveal clip.
func (p *Policy) Triggers(round int, player models.Move, seen bool) bool {
	rs, ok := p.script.Round(round)
	return ok && !seen && player == rs.WinningMove
}

// ChooseCPUMove returns the CPU move and whether a forced video must play
// first. When it does, the returned move is the one hard-set after the clip.
func (p *Policy) ChooseCPUMove(round int, player models.Move, seen bool) (models.Move, bool) {
	rs, ok := p.script.Round(round)
	if !ok {
		return models.Moves[p.rnd.IntN(len(models.Moves))], false
	}
	if !seen && player == rs.WinningMove {
		return rs.WinningMove.Beats(), true
	}
	return player.Counter(), false
}
