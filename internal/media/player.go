package media

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var ErrNoPlayer = errors.New("no player command configured")

// Player owns a single playback handle backed by an external command such as
// "mpv --no-video". Starting a new locator stops the previous one first.
type Player struct {
	args []string
	log  zerolog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	current string
}

// NewPlayer splits command on whitespace. An empty command yields a player
// whose Play always returns ErrNoPlayer.
func NewPlayer(command string, log zerolog.Logger) *Player {
	return &Player{
		args: strings.Fields(command),
		log:  log.With().Str("component", "media").Logger(),
	}
}

func (p *Player) Enabled() bool { return len(p.args) > 0 }

// Play stops whatever is playing and starts locator.
func (p *Player) Play(locator string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	if !p.Enabled() {
		return ErrNoPlayer
	}
	args := append(append([]string{}, p.args[1:]...), locator)
	cmd := exec.Command(p.args[0], args...) // #nosec G204 -- command comes from local config
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.args[0], err)
	}
	p.cmd = cmd
	p.current = locator

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.cmd == cmd {
			p.cmd = nil
			p.current = ""
			if err != nil {
				p.log.Warn().Err(err).Str("locator", locator).Msg("playback exited with error")
			}
		}
	}()
	return nil
}

// Stop releases the handle. It is safe to call when nothing plays.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Current returns the locator being played, if any.
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Player) stopLocked() {
	if p.cmd == nil {
		return
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
	p.current = ""
}
