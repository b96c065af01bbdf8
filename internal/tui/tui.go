package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tatianab/rigged-rps/internal/engine"
	"github.com/tatianab/rigged-rps/internal/media"
	"github.com/tatianab/rigged-rps/internal/models"
)

const (
	defaultClipStep   = 250 * time.Millisecond
	defaultCreditStep = 600 * time.Millisecond
)

// Deps are the collaborators the renderer drives. Nil players are replaced
// with disabled ones.
type Deps struct {
	Audio *media.Player
	Video *media.Player
	Stats <-chan models.GlobalStats
	Log   zerolog.Logger
}

type model struct {
	engine *engine.Engine
	audio  *media.Player
	video  *media.Player
	stats  <-chan models.GlobalStats
	log    zerolog.Logger

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	credits  viewport.Model

	clip       *media.Timeline
	clipCue    models.VideoCue
	clipGen    int
	clipStep   time.Duration
	creditStep time.Duration

	global models.GlobalStats
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6FAE")).
			Bold(true).
			Underline(true)

	scoreStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Foreground(lipgloss.Color("#AAAAAA"))

	dialogueStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(1, 2).
			Foreground(lipgloss.Color("#EEEEEE"))

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6FAE")).Bold(true)
	loseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Bold(true)
	drawStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5D547")).Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(1, 3)
)

func NewModel(eng *engine.Engine, deps Deps) model {
	if deps.Audio == nil {
		deps.Audio = media.NewPlayer("", deps.Log)
	}
	if deps.Video == nil {
		deps.Video = media.NewPlayer("", deps.Log)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	credits := viewport.New(40, 8)
	credits.SetContent(strings.Join(eng.Script().Credits, "\n"))

	return model{
		engine:     eng,
		audio:      deps.Audio,
		video:      deps.Video,
		stats:      deps.Stats,
		log:        deps.Log.With().Str("component", "tui").Logger(),
		keys:       newKeyMap(),
		help:       help.New(),
		spinner:    sp,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		credits:    credits,
		clipStep:   defaultClipStep,
		creditStep: defaultCreditStep,
	}
}

type timerMsg struct {
	id engine.TimerID
}

type clipTickMsg struct {
	gen int
}

type creditsTickMsg struct{}

type statsMsg struct {
	stats models.GlobalStats
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStats())
}

// waitForStats turns the next mirrored counters update into a message.
func (m model) waitForStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	ch := m.stats
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return statsMsg{s}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if ev, quit := m.keyEvent(msg); quit {
			m.audio.Stop()
			m.video.Stop()
			return m, tea.Quit
		} else if ev != nil {
			next, cmd := m.dispatch(ev)
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.credits.Width = msg.Width / 2
		m.progress.Width = max(20, msg.Width/2)

	case timerMsg:
		next, cmd := m.dispatch(engine.TimerFired{ID: msg.id})
		return next, cmd

	case clipTickMsg:
		if msg.gen != m.clipGen || m.clip == nil {
			return m, nil
		}
		cue := m.clipCue
		ended := m.clip.Advance(m.clipStep)
		next, cmd := m.dispatch(engine.VideoTimeUpdate{Cue: cue, Current: m.clip.Elapsed, Duration: m.clip.Duration})
		if ended {
			next, endCmd := next.dispatch(engine.VideoEnded{Cue: cue})
			return next, tea.Batch(cmd, endCmd)
		}
		return next, tea.Batch(cmd, next.tickClip())

	case creditsTickMsg:
		if m.engine.Snapshot().Session.Phase.Kind != models.PhaseCredits {
			return m, nil
		}
		m.credits.SetYOffset(m.credits.YOffset + 1)
		return m, m.tickCredits()

	case statsMsg:
		m.global = msg.stats
		return m, m.waitForStats()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// dispatch feeds one event to the engine and turns its effects into
// commands.
func (m model) dispatch(ev engine.Event) (model, tea.Cmd) {
	effects := m.engine.Handle(ev)
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff := eff.(type) {
		case engine.ScheduleTimer:
			id := eff.ID
			cmds = append(cmds, tea.Tick(eff.After, func(time.Time) tea.Msg { return timerMsg{id} }))
			if eff.Kind == engine.TimerCredits {
				m.credits.GotoTop()
				cmds = append(cmds, m.tickCredits())
			}
		case engine.CancelTimers:
			// Cancelled timers still fire; the engine drops them by id.
		case engine.PlayVideo:
			m.clipGen++
			m.clipCue = eff.Cue
			m.clip = media.NewTimeline(eff.Clip.Duration)
			m.playOn(m.video, eff.Clip.URL)
			cmds = append(cmds, m.tickClip())
		case engine.StopVideo:
			m.clipGen++
			m.clip = nil
			m.video.Stop()
		case engine.PlayAudio:
			m.playOn(m.audio, eff.Locator)
		case engine.StopAudio:
			m.audio.Stop()
		}
	}
	return m, tea.Batch(cmds...)
}

// playOn starts playback and swallows failures: the game goes on without
// the sound or picture.
func (m model) playOn(p *media.Player, locator string) {
	err := p.Play(locator)
	switch {
	case err == nil:
	case errors.Is(err, media.ErrNoPlayer):
		m.log.Debug().Str("locator", locator).Msg("no player configured")
	default:
		m.log.Warn().Err(err).Str("locator", locator).Msg("playback failed")
	}
}

func (m model) tickClip() tea.Cmd {
	gen := m.clipGen
	return tea.Tick(m.clipStep, func(time.Time) tea.Msg { return clipTickMsg{gen} })
}

func (m model) tickCredits() tea.Cmd {
	return tea.Tick(m.creditStep, func(time.Time) tea.Msg { return creditsTickMsg{} })
}

func (m model) View() string {
	snap := m.engine.Snapshot()
	script := m.engine.Script()

	var body string
	switch snap.Session.Phase.Kind {
	case models.PhaseTitle:
		body = titleStyle.Render(script.Title) + "\n\n" + gameStyle.Render("Press enter to start.")

	case models.PhaseIntro:
		text := snap.DialogueText
		if !snap.LineRevealed {
			text += "▌"
		}
		width := max(30, m.width*3/4)
		body = dialogueStyle.Width(width).Render(text)

	case models.PhasePlaying:
		var opts []string
		for i, mv := range models.Moves {
			opts = append(opts, fmt.Sprintf("[%d] %s %s", i+1, glyph(mv), mv))
		}
		body = "Choose your move:\n\n" + strings.Join(opts, "    ")

	case models.PhaseThinking:
		body = fmt.Sprintf("%s  vs  %s\n\n%s Opponent is thinking...",
			glyph(snap.Display.PlayerMove), glyph(""), m.spinner.View())

	case models.PhaseResult:
		body = m.renderResult(snap.Display) + "\n\n" + helpStyle.Render("enter: play again")

	case models.PhaseVideo:
		body = m.renderVideo(snap)

	case models.PhasePunishmentPrompt:
		body = m.renderResult(snap.Display) + "\n\n" +
			modalStyle.Render("Your opponent lost this round.\nTime for the punishment.\n\nenter: accept")

	case models.PhaseNextRoundPrompt:
		body = modalStyle.Render(fmt.Sprintf("Round %d cleared.\n\nenter: next round", snap.Session.Round))

	case models.PhasePaywall:
		text := "The ending is locked.\nUnlock it for only $9.99!\n\nenter: pay"
		if snap.Session.Phase.RefuseShown {
			text = "Payment declined... by us. Nice try.\nWatch it anyway?\n\nenter: refuse to pay"
		}
		body = modalStyle.Render(text)

	case models.PhaseCredits:
		body = m.credits.View()

	case models.PhaseFinal:
		body = titleStyle.Render("THE END") + "\n\n" + helpStyle.Render("enter: play again from the top")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.renderHeader(snap),
		"",
		body,
		"",
		m.help.View(m.keys),
	)
}

func (m model) renderHeader(snap engine.Snapshot) string {
	s := snap.Session
	header := fmt.Sprintf("Round %d   You %d : %d CPU", s.Round, s.Score.Player, s.Score.CPU)
	global := fmt.Sprintf("Total games %d · CPU wins %d · Visitors %d",
		m.global.TotalGames, m.global.CPUWins, m.global.VisitorCount)
	return scoreStyle.Render(header + "\n" + global)
}

func (m model) renderResult(d models.RoundDisplay) string {
	line := fmt.Sprintf("%s  vs  %s", glyph(d.PlayerMove), glyph(d.CPUMove))
	out := line + "\n\n" + resultText(d.Outcome)
	if d.Confetti {
		out = "🎉 ✨ ⭐ 💖 🎉 ✨ ⭐ 💖\n\n" + out
	}
	return out
}

func (m model) renderVideo(snap engine.Snapshot) string {
	cue := snap.Session.Phase.Cue
	var label string
	switch cue.Role {
	case models.RoleReveal:
		label = "Opponent is making a move..."
	case models.RolePunishment:
		label = "Punishment time."
	case models.RoleEnding:
		label = "The ending."
	}

	pct := 0.0
	if m.clip != nil {
		pct = m.clip.Progress()
	}
	out := label + "\n\n" + m.progress.ViewAs(pct)
	if snap.Display.HandOverlay {
		if rs, ok := m.engine.Script().Round(cue.Round); ok {
			out += "\n\n" + winStyle.Render(glyph(rs.WinningMove)+"  "+string(rs.WinningMove)+"!")
		}
	}
	return out + "\n\n" + helpStyle.Render("enter: skip")
}

func glyph(m models.Move) string {
	switch m {
	case models.Rock:
		return "✊"
	case models.Paper:
		return "✋"
	case models.Scissors:
		return "✌️"
	}
	return "❔"
}

func resultText(o models.Outcome) string {
	switch o {
	case models.Win:
		return winStyle.Render("You win! 🎉")
	case models.Lose:
		return loseStyle.Render("Oops, you lose 😢")
	case models.Draw:
		return drawStyle.Render("Draw! 🤝")
	}
	return ""
}

// Run starts the renderer on the alternate screen and blocks until the
// player quits.
func Run(eng *engine.Engine, deps Deps) error {
	p := tea.NewProgram(NewModel(eng, deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
