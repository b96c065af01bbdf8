package engine

import (
	"time"

	"github.com/tatianab/rigged-rps/internal/models"
)

// Event is an input consumed by Engine.Handle.
type Event interface{ isEvent() }

type (
	Start            struct{}
	AdvanceDialogue  struct{}
	ReplayNarration  struct{}
	SelectMove       struct{ Move models.Move }
	ResetRound       struct{}
	AcceptPunishment struct{}
	ConfirmNextRound struct{}
	FakePay          struct{}
	RefusePay        struct{}
	FullReset        struct{}

	VideoTimeUpdate struct {
		Cue      models.VideoCue
		Current  time.Duration
		Duration time.Duration
	}
	VideoEnded struct{ Cue models.VideoCue }
	TimerFired struct{ ID TimerID }
)

func (Start) isEvent()            {}
func (AdvanceDialogue) isEvent()  {}
func (ReplayNarration) isEvent()  {}
func (SelectMove) isEvent()       {}
func (ResetRound) isEvent()       {}
func (AcceptPunishment) isEvent() {}
func (ConfirmNextRound) isEvent() {}
func (FakePay) isEvent()          {}
func (RefusePay) isEvent()        {}
func (FullReset) isEvent()        {}
func (VideoTimeUpdate) isEvent()  {}
func (VideoEnded) isEvent()       {}
func (TimerFired) isEvent()       {}

// TimerID identifies one scheduled timer. IDs are never reused, so a timer
// fired after it was cancelled is recognised and dropped.
type TimerID uint64

type TimerKind string

const (
	TimerThinking TimerKind = "thinking"
	TimerReveal   TimerKind = "reveal"
	TimerCredits  TimerKind = "credits"
)

// Effect is a side effect the host must carry out.
type Effect interface{ isEffect() }

type (
	PlayVideo struct {
		Cue  models.VideoCue
		Clip models.Clip
	}
	StopVideo struct{}
	PlayAudio struct {
		Cue     string
		Locator string
	}
	StopAudio     struct{}
	ScheduleTimer struct {
		ID    TimerID
		Kind  TimerKind
		After time.Duration
	}
	// CancelTimers lists timers that will be ignored if they still fire.
	CancelTimers struct{ IDs []TimerID }
)

func (PlayVideo) isEffect()     {}
func (StopVideo) isEffect()     {}
func (PlayAudio) isEffect()     {}
func (StopAudio) isEffect()     {}
func (ScheduleTimer) isEffect() {}
func (CancelTimers) isEffect()  {}
