package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tatianab/rigged-rps/internal/models"
)

// Recorder receives committed round outcomes. Implementations must not
// block.
type Recorder interface {
	RecordGameOutcome(outcome models.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) RecordGameOutcome(models.Outcome) {}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l.With().Str("component", "engine").Logger() }
}

func WithRand(r Rand) Option {
	return func(e *Engine) { e.policy = NewPolicy(e.script, r) }
}

// Engine is the session controller. Every input, timer and media event goes
// through Handle one at a time; Handle mutates the session and returns the
// side effects the host has to perform. The engine never blocks.
type Engine struct {
	script   *models.Script
	policy   *Policy
	dialogue *Dialogue
	recorder Recorder
	log      zerolog.Logger

	session     models.Session
	display     models.RoundDisplay
	pendingMove models.Move

	lastTimer TimerID
	timers    map[TimerID]TimerKind
}

func New(script *models.Script, recorder Recorder, opts ...Option) *Engine {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	e := &Engine{
		script:   script,
		dialogue: NewDialogue(script.Dialogue),
		recorder: recorder,
		log:      zerolog.Nop(),
		session:  models.NewSession(),
		timers:   make(map[TimerID]TimerKind),
	}
	e.policy = NewPolicy(script, nil)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot is what a renderer needs to draw the current screen.
type Snapshot struct {
	Session      models.Session
	Display      models.RoundDisplay
	DialogueText string
	LineRevealed bool
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Session:      e.session,
		Display:      e.display,
		DialogueText: e.dialogue.Text(),
		LineRevealed: e.dialogue.Revealed(),
	}
}

func (e *Engine) Script() *models.Script { return e.script }

// Pending reports how many timers are live.
func (e *Engine) Pending() int { return len(e.timers) }

// Handle applies one event. Events that make no sense in the current phase
// are dropped.
func (e *Engine) Handle(ev Event) []Effect {
	before := e.session.Phase
	var effects []Effect

	switch ev := ev.(type) {
	case Start:
		effects = e.start()
	case AdvanceDialogue:
		effects = e.advanceDialogue()
	case ReplayNarration:
		if e.session.Phase.Kind == models.PhaseIntro {
			effects = e.narrate()
		}
	case SelectMove:
		effects = e.selectMove(ev.Move)
	case ResetRound:
		effects = e.resetRound()
	case AcceptPunishment:
		if e.session.Phase.Kind == models.PhasePunishmentPrompt {
			effects = e.playVideo(models.VideoCue{Role: models.RolePunishment, Round: e.session.Round})
		}
	case ConfirmNextRound:
		effects = e.confirmNextRound()
	case FakePay:
		if e.session.Phase.Kind == models.PhasePaywall && !e.session.Phase.RefuseShown {
			e.session.Phase = models.PaywallPhase(true)
		}
	case RefusePay:
		if e.session.Phase.Kind == models.PhasePaywall && e.session.Phase.RefuseShown {
			effects = e.playVideo(models.VideoCue{Role: models.RoleEnding})
		}
	case FullReset:
		effects = e.fullReset()
	case VideoTimeUpdate:
		e.videoTimeUpdate(ev)
	case VideoEnded:
		effects = e.videoEnded(ev.Cue)
	case TimerFired:
		effects = e.timerFired(ev.ID)
	}

	if after := e.session.Phase; after != before {
		e.log.Debug().
			Str("from", before.String()).
			Str("to", after.String()).
			Int("round", e.session.Round).
			Msg("transition")
	}
	return effects
}

func (e *Engine) start() []Effect {
	if e.session.Phase.Kind != models.PhaseTitle {
		return nil
	}
	e.dialogue.Begin()
	e.session.Phase = models.IntroPhase(0)
	return e.startLine()
}

// startLine narrates the current line and starts its reveal.
func (e *Engine) startLine() []Effect {
	effects := e.narrate()
	if !e.dialogue.Revealed() {
		effects = append(effects, e.schedule(TimerReveal, e.script.Timing.RevealInterval))
	}
	return effects
}

func (e *Engine) narrate() []Effect {
	cue := models.NarrationCue(e.dialogue.Index())
	return []Effect{
		StopAudio{},
		PlayAudio{Cue: cue, Locator: e.script.NarrationLocator(cue)},
	}
}

func (e *Engine) advanceDialogue() []Effect {
	if e.session.Phase.Kind != models.PhaseIntro {
		return nil
	}
	effects := e.cancel(TimerReveal)
	switch e.dialogue.Advance() {
	case StepRevealed:
	case StepNextLine:
		e.session.Phase = models.IntroPhase(e.dialogue.Index())
		effects = append(effects, e.startLine()...)
	case StepFinished:
		e.session.Phase = models.Phase{Kind: models.PhasePlaying}
		e.session.Round = 1
		e.display = models.RoundDisplay{}
		effects = append(effects, StopAudio{})
	}
	return effects
}

func (e *Engine) selectMove(move models.Move) []Effect {
	if e.session.Phase.Kind != models.PhasePlaying || !move.Valid() {
		e.log.Debug().Str("phase", e.session.Phase.String()).Str("move", string(move)).Msg("move ignored")
		return nil
	}
	e.pendingMove = move
	e.display = models.RoundDisplay{PlayerMove: move}

	if e.policy.Triggers(e.session.Round, move, e.session.HasSeenForcedVideo) {
		return e.playVideo(models.VideoCue{Role: models.RoleReveal, Round: e.session.Round})
	}
	e.session.Phase = models.Phase{Kind: models.PhaseThinking}
	return []Effect{e.schedule(TimerThinking, e.script.Timing.Thinking)}
}

// finishThinking commits a fair or countered round.
func (e *Engine) finishThinking() {
	cpu, _ := e.policy.ChooseCPUMove(e.session.Round, e.pendingMove, e.session.HasSeenForcedVideo)
	outcome := Resolve(e.pendingMove, cpu)

	e.display.CPUMove = cpu
	e.display.Outcome = outcome
	switch outcome {
	case models.Win:
		e.session.Score.Player++
		e.display.Confetti = true
	case models.Lose:
		e.session.Score.CPU++
	}
	e.session.Phase = models.Phase{Kind: models.PhaseResult}
	e.recorder.RecordGameOutcome(outcome)
}

func (e *Engine) resetRound() []Effect {
	if e.session.Phase.Kind != models.PhaseResult {
		return nil
	}
	e.display = models.RoundDisplay{}
	e.pendingMove = ""
	e.session.Phase = models.Phase{Kind: models.PhasePlaying}
	return e.cancel(TimerThinking)
}

func (e *Engine) confirmNextRound() []Effect {
	if e.session.Phase.Kind != models.PhaseNextRoundPrompt {
		return nil
	}
	e.session.Score.Player++
	e.session.Round++
	e.session.HasSeenForcedVideo = false
	e.display = models.RoundDisplay{}
	e.pendingMove = ""
	e.session.Phase = models.Phase{Kind: models.PhasePlaying}
	return nil
}

func (e *Engine) playVideo(cue models.VideoCue) []Effect {
	clip, err := e.script.ClipFor(cue)
	if err != nil {
		e.log.Error().Err(err).Str("cue", cue.ID()).Msg("no clip for cue")
	}
	e.session.Phase = models.VideoPhase(cue)
	return []Effect{PlayVideo{Cue: cue, Clip: clip}}
}

func (e *Engine) videoTimeUpdate(ev VideoTimeUpdate) {
	p := e.session.Phase
	if p.Kind != models.PhaseVideo || p.Cue != ev.Cue || p.Cue.Role != models.RoleReveal {
		return
	}
	if ev.Duration > 0 && ev.Duration-ev.Current <= e.script.Timing.HandOverlayWindow {
		e.display.HandOverlay = true
	}
}

func (e *Engine) videoEnded(cue models.VideoCue) []Effect {
	p := e.session.Phase
	if p.Kind != models.PhaseVideo || p.Cue != cue {
		e.log.Debug().Str("cue", cue.ID()).Str("phase", p.String()).Msg("stale video end")
		return nil
	}
	effects := []Effect{StopVideo{}}

	switch cue.Role {
	case models.RoleReveal:
		// The reveal settles the round as a win without asking the resolver.
		rs, _ := e.script.Round(cue.Round)
		e.session.HasSeenForcedVideo = true
		e.display = models.RoundDisplay{
			PlayerMove: rs.WinningMove,
			CPUMove:    rs.WinningMove.Beats(),
			Outcome:    models.Win,
			Confetti:   true,
		}
		e.session.Phase = models.Phase{Kind: models.PhasePunishmentPrompt}
		e.recorder.RecordGameOutcome(models.Win)
	case models.RolePunishment:
		if rs, ok := e.script.Round(cue.Round); ok && rs.Final {
			e.session.Phase = models.PaywallPhase(false)
		} else {
			e.session.Phase = models.Phase{Kind: models.PhaseNextRoundPrompt}
		}
	case models.RoleEnding:
		e.session.Phase = models.Phase{Kind: models.PhaseCredits}
		effects = append(effects, e.schedule(TimerCredits, e.script.Timing.Credits))
	}
	return effects
}

func (e *Engine) timerFired(id TimerID) []Effect {
	kind, ok := e.timers[id]
	if !ok {
		return nil
	}
	delete(e.timers, id)

	switch kind {
	case TimerReveal:
		if e.session.Phase.Kind == models.PhaseIntro && e.dialogue.Tick() {
			return []Effect{e.schedule(TimerReveal, e.script.Timing.RevealInterval)}
		}
	case TimerThinking:
		if e.session.Phase.Kind == models.PhaseThinking {
			e.finishThinking()
		}
	case TimerCredits:
		if e.session.Phase.Kind == models.PhaseCredits {
			e.session.Phase = models.Phase{Kind: models.PhaseFinal}
		}
	}
	return nil
}

// fullReset drops every pending timer, stops media and starts over.
func (e *Engine) fullReset() []Effect {
	effects := e.cancel("")
	effects = append(effects, StopVideo{}, StopAudio{})
	e.session = models.NewSession()
	e.display = models.RoundDisplay{}
	e.pendingMove = ""
	e.dialogue.Begin()
	return effects
}

func (e *Engine) schedule(kind TimerKind, after time.Duration) Effect {
	e.lastTimer++
	e.timers[e.lastTimer] = kind
	return ScheduleTimer{ID: e.lastTimer, Kind: kind, After: after}
}

// cancel forgets live timers of kind, or all of them when kind is empty.
func (e *Engine) cancel(kind TimerKind) []Effect {
	var ids []TimerID
	for id, k := range e.timers {
		if kind == "" || k == kind {
			ids = append(ids, id)
			delete(e.timers, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []Effect{CancelTimers{IDs: ids}}
}
