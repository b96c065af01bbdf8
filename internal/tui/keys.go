package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/rigged-rps/internal/engine"
	"github.com/tatianab/rigged-rps/internal/models"
)

type keyMap struct {
	Continue key.Binding
	Rock     key.Binding
	Paper    key.Binding
	Scissors key.Binding
	Replay   key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Continue: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "continue")),
		Rock:     key.NewBinding(key.WithKeys("1", "r"), key.WithHelp("1/r", "rock")),
		Paper:    key.NewBinding(key.WithKeys("2", "p"), key.WithHelp("2/p", "paper")),
		Scissors: key.NewBinding(key.WithKeys("3", "s"), key.WithHelp("3/s", "scissors")),
		Replay:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "replay voice")),
		Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "start over")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Rock, k.Paper, k.Scissors, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Continue, k.Replay},
		{k.Rock, k.Paper, k.Scissors},
		{k.Reset, k.Quit},
	}
}

// keyEvent maps a key press to the engine event it stands for in the
// current phase. Continue means something different on every screen.
func (m model) keyEvent(msg tea.KeyMsg) (ev engine.Event, quit bool) {
	phase := m.engine.Snapshot().Session.Phase

	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Reset):
		return engine.FullReset{}, false
	case key.Matches(msg, m.keys.Replay):
		return engine.ReplayNarration{}, false
	case key.Matches(msg, m.keys.Rock):
		return engine.SelectMove{Move: models.Rock}, false
	case key.Matches(msg, m.keys.Paper):
		return engine.SelectMove{Move: models.Paper}, false
	case key.Matches(msg, m.keys.Scissors):
		return engine.SelectMove{Move: models.Scissors}, false
	case !key.Matches(msg, m.keys.Continue):
		return nil, false
	}

	switch phase.Kind {
	case models.PhaseTitle:
		return engine.Start{}, false
	case models.PhaseIntro:
		return engine.AdvanceDialogue{}, false
	case models.PhaseResult:
		return engine.ResetRound{}, false
	case models.PhaseVideo:
		// Skipping a clip is the same as watching it to the end.
		return engine.VideoEnded{Cue: phase.Cue}, false
	case models.PhasePunishmentPrompt:
		return engine.AcceptPunishment{}, false
	case models.PhaseNextRoundPrompt:
		return engine.ConfirmNextRound{}, false
	case models.PhasePaywall:
		if phase.RefuseShown {
			return engine.RefusePay{}, false
		}
		return engine.FakePay{}, false
	case models.PhaseFinal:
		return engine.FullReset{}, false
	}
	return nil, false
}
