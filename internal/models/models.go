package models

import (
	"fmt"
	"time"
)

// Move is a rock-paper-scissors gesture.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Moves lists every valid move in display order.
var Moves = []Move{Rock, Paper, Scissors}

// Valid reports whether m is one of the three gestures.
func (m Move) Valid() bool {
	return m == Rock || m == Paper || m == Scissors
}

// Beats returns the move that m defeats.
func (m Move) Beats() Move {
	switch m {
	case Rock:
		return Scissors
	case Paper:
		return Rock
	case Scissors:
		return Paper
	}
	return ""
}

// Counter returns the move that defeats m.
func (m Move) Counter() Move {
	switch m {
	case Rock:
		return Paper
	case Paper:
		return Scissors
	case Scissors:
		return Rock
	}
	return ""
}

// Outcome is a round result, always from the player's side.
type Outcome string

const (
	Win  Outcome = "win"
	Lose Outcome = "lose"
	Draw Outcome = "draw"
)

// PhaseKind names the active screen of a session.
type PhaseKind string

const (
	PhaseTitle            PhaseKind = "title"
	PhaseIntro            PhaseKind = "intro"
	PhasePlaying          PhaseKind = "playing"
	PhaseThinking         PhaseKind = "thinking"
	PhaseResult           PhaseKind = "result"
	PhaseVideo            PhaseKind = "video"
	PhasePunishmentPrompt PhaseKind = "punishment_prompt"
	PhaseNextRoundPrompt  PhaseKind = "next_round_prompt"
	PhasePaywall          PhaseKind = "paywall"
	PhaseCredits          PhaseKind = "credits"
	PhaseFinal            PhaseKind = "final"
)

// Phase is a tagged variant: DialogueIndex is meaningful for PhaseIntro,
// Cue for PhaseVideo and RefuseShown for PhasePaywall.
type Phase struct {
	Kind          PhaseKind
	DialogueIndex int
	Cue           VideoCue
	RefuseShown   bool
}

func TitlePhase() Phase { return Phase{Kind: PhaseTitle} }

func IntroPhase(index int) Phase { return Phase{Kind: PhaseIntro, DialogueIndex: index} }

func VideoPhase(cue VideoCue) Phase { return Phase{Kind: PhaseVideo, Cue: cue} }

func PaywallPhase(refuse bool) Phase { return Phase{Kind: PhasePaywall, RefuseShown: refuse} }

// ActiveRound reports whether the phase belongs to the round super-state
// (playing, thinking or showing a result).
func (p Phase) ActiveRound() bool {
	switch p.Kind {
	case PhasePlaying, PhaseThinking, PhaseResult:
		return true
	}
	return false
}

// Modal reports whether the phase is an overlay that blocks move input.
func (p Phase) Modal() bool {
	switch p.Kind {
	case PhaseVideo, PhasePunishmentPrompt, PhaseNextRoundPrompt, PhasePaywall, PhaseCredits, PhaseFinal:
		return true
	}
	return false
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseIntro:
		return fmt.Sprintf("intro(%d)", p.DialogueIndex)
	case PhaseVideo:
		return fmt.Sprintf("video(%s)", p.Cue.ID())
	case PhasePaywall:
		return fmt.Sprintf("paywall(refuse=%t)", p.RefuseShown)
	}
	return string(p.Kind)
}

// CueRole tells what a clip is for.
type CueRole string

const (
	RoleReveal     CueRole = "reveal"
	RolePunishment CueRole = "punishment"
	RoleEnding     CueRole = "ending"
)

// VideoCue identifies a clip symbolically. Round is zero for the ending.
type VideoCue struct {
	Role  CueRole
	Round int
}

// ID is the symbolic name used as the key into Script.Clips.
func (c VideoCue) ID() string {
	if c.Role == RoleEnding {
		return string(RoleEnding)
	}
	return fmt.Sprintf("%s-%d", c.Role, c.Round)
}

// Score counts rounds won by each side.
type Score struct {
	Player uint `yaml:"player"`
	CPU    uint `yaml:"cpu"`
}

// Session is the in-memory state of one play session.
type Session struct {
	Phase              Phase
	Round              int
	Score              Score
	HasSeenForcedVideo bool
}

// NewSession returns a session at the title screen.
func NewSession() Session {
	return Session{Phase: TitlePhase(), Round: 1}
}

// RoundDisplay is the transient per-round state shown next to the score.
type RoundDisplay struct {
	PlayerMove  Move
	CPUMove     Move
	Outcome     Outcome
	Confetti    bool
	HandOverlay bool
}

// GlobalStats mirrors the counters held by the external stats store.
type GlobalStats struct {
	TotalGames   int64 `yaml:"totalGames"`
	CPUWins      int64 `yaml:"cpuWins"`
	VisitorCount int64 `yaml:"visitorCount"`
}

// RoundScript is one row of the scripted round table.
type RoundScript struct {
	Round          int    `yaml:"round"`
	WinningMove    Move   `yaml:"winning_move"`
	RevealClip     string `yaml:"reveal_clip"`
	PunishmentClip string `yaml:"punishment_clip"`
	Final          bool   `yaml:"final"`
}

// Clip is a media locator plus its nominal length.
type Clip struct {
	URL      string        `yaml:"url"`
	Duration time.Duration `yaml:"duration"`
}

// Timing holds the fixed delays of the script.
type Timing struct {
	Thinking          time.Duration `yaml:"thinking"`
	RevealInterval    time.Duration `yaml:"reveal_interval"`
	Credits           time.Duration `yaml:"credits"`
	HandOverlayWindow time.Duration `yaml:"hand_overlay_window"`
}

// Script is the whole linear story: dialogue, rounds, clips and credits.
type Script struct {
	Title            string          `yaml:"title"`
	Dialogue         []string        `yaml:"dialogue"`
	NarrationPattern string          `yaml:"narration_pattern"` // e.g. "assets/audio/%s.mp3"
	Rounds           []RoundScript   `yaml:"rounds"`
	EndingClip       string          `yaml:"ending_clip"`
	Clips            map[string]Clip `yaml:"clips"` // keyed by clip name
	Credits          []string        `yaml:"credits"`
	Timing           Timing          `yaml:"timing"`
}
