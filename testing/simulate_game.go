package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/tatianab/rigged-rps/internal/autoplay"
	"github.com/tatianab/rigged-rps/internal/config"
	"github.com/tatianab/rigged-rps/internal/engine"
	"github.com/tatianab/rigged-rps/internal/logger"
	"github.com/tatianab/rigged-rps/internal/models"
	"github.com/tatianab/rigged-rps/internal/stats"
)

const (
	maxSteps          = 10000
	maxThrowsPerRound = 12
)

// simulator runs the engine without a terminal: timers fire at once and
// every clip plays to its end immediately.
type simulator struct {
	eng    *engine.Engine
	timers []engine.ScheduleTimer
	video  *engine.PlayVideo
}

func (s *simulator) handle(ev engine.Event) {
	for _, eff := range s.eng.Handle(ev) {
		switch eff := eff.(type) {
		case engine.ScheduleTimer:
			s.timers = append(s.timers, eff)
		case engine.CancelTimers:
			s.timers = slices.DeleteFunc(s.timers, func(t engine.ScheduleTimer) bool {
				return slices.Contains(eff.IDs, t.ID)
			})
		case engine.PlayVideo:
			fmt.Printf("  [video] %s (%s)\n", eff.Cue.ID(), eff.Clip.Duration)
			s.video = &eff
		case engine.StopVideo:
			s.video = nil
		case engine.PlayAudio:
			fmt.Printf("  [voice] %s\n", eff.Locator)
		}
	}
}

// settle drains timers and clips until the engine waits for input.
func (s *simulator) settle() {
	for {
		switch {
		case len(s.timers) > 0:
			t := s.timers[0]
			s.timers = s.timers[1:]
			s.handle(engine.TimerFired{ID: t.ID})
		case s.video != nil:
			v := *s.video
			s.handle(engine.VideoTimeUpdate{Cue: v.Cue, Current: v.Clip.Duration, Duration: v.Clip.Duration})
			s.handle(engine.VideoEnded{Cue: v.Cue})
		default:
			return
		}
	}
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl := logger.NewWriter(os.Stderr, cfg.LogLevel, "console")

	script := models.DefaultScript
	if cfg.ScriptPath != "" {
		script = func() (*models.Script, error) { return models.LoadScript(cfg.ScriptPath) }
	}
	sc, err := script()
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	rnd := engine.NewRand(cfg.Seed)
	var fallback autoplay.Chooser = autoplay.NewRandomPlayer(rnd)
	chooser := fallback
	if cfg.GeminiAPIKey != "" {
		gp, err := autoplay.NewGeminiPlayer(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer gp.Close()
		chooser = gp
		fmt.Println("--- Player: Gemini ---")
	} else {
		fmt.Println("--- Player: random ---")
	}

	store := stats.NewMemoryStore()
	notifier := stats.NewNotifier(store, cfg.StatsKey, stats.WithLogger(zl))
	notifier.RecordVisit()

	sim := &simulator{eng: engine.New(sc, notifier, engine.WithLogger(zl), engine.WithRand(rnd))}

	var history []autoplay.Throw
	throws := 0
	lastPhase := models.PhaseKind("")

	for step := 0; step < maxSteps; step++ {
		sim.settle()
		snap := sim.eng.Snapshot()
		phase := snap.Session.Phase

		if phase.Kind != lastPhase {
			fmt.Printf("--- %s | round %d | you %d : %d cpu ---\n",
				phase, snap.Session.Round, snap.Session.Score.Player, snap.Session.Score.CPU)
			lastPhase = phase.Kind
		}

		switch phase.Kind {
		case models.PhaseTitle:
			sim.handle(engine.Start{})

		case models.PhaseIntro:
			if snap.LineRevealed {
				fmt.Printf("  %q\n", snap.DialogueText)
			}
			sim.handle(engine.AdvanceDialogue{})

		case models.PhasePlaying:
			state := autoplay.State{Round: snap.Session.Round, Score: snap.Session.Score, History: history}
			c := chooser
			if throws >= maxThrowsPerRound {
				c = fallback
			}
			move, err := c.Choose(ctx, state)
			if err != nil {
				fmt.Printf("  player error: %v\n", err)
				move, _ = fallback.Choose(ctx, state)
			}
			throws++
			fmt.Printf("  Player throws %s\n", move)
			sim.handle(engine.SelectMove{Move: move})

		case models.PhaseResult:
			d := snap.Display
			fmt.Printf("  %s vs %s: %s\n", d.PlayerMove, d.CPUMove, d.Outcome)
			history = append(history, autoplay.Throw{Player: d.PlayerMove, CPU: d.CPUMove, Outcome: d.Outcome})
			sim.handle(engine.ResetRound{})

		case models.PhasePunishmentPrompt:
			d := snap.Display
			fmt.Printf("  %s vs %s: %s (forced)\n", d.PlayerMove, d.CPUMove, d.Outcome)
			history = append(history, autoplay.Throw{Player: d.PlayerMove, CPU: d.CPUMove, Outcome: d.Outcome})
			sim.handle(engine.AcceptPunishment{})

		case models.PhaseNextRoundPrompt:
			throws = 0
			sim.handle(engine.ConfirmNextRound{})

		case models.PhasePaywall:
			if phase.RefuseShown {
				sim.handle(engine.RefusePay{})
			} else {
				sim.handle(engine.FakePay{})
			}

		case models.PhaseFinal:
			notifier.Wait()
			g := store.Get(cfg.StatsKey).ToGlobalStats()
			fmt.Println("Game Ended: credits rolled.")
			fmt.Printf("Stats: total games=%d, cpu wins=%d, visitors=%d\n", g.TotalGames, g.CPUWins, g.VisitorCount)
			return

		default:
			log.Fatalf("Stuck in phase %s", phase)
		}
	}
	log.Fatalf("No ending after %d steps", maxSteps)
}
