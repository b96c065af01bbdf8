package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed script.yaml
var defaultScript []byte

var (
	ErrEmptyDialogue = errors.New("script has no dialogue")
	ErrNoRounds      = errors.New("script has no rounds")
	ErrUnknownClip   = errors.New("unknown clip")
)

const (
	DefaultThinking          = time.Second
	DefaultRevealInterval    = 40 * time.Millisecond
	DefaultCredits           = 5 * time.Second
	DefaultHandOverlayWindow = time.Second
)

// DefaultScript parses the script compiled into the binary.
func DefaultScript() (*Script, error) {
	return ParseScript(defaultScript)
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes, defaults and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) applyDefaults() {
	if s.Timing.Thinking == 0 {
		s.Timing.Thinking = DefaultThinking
	}
	if s.Timing.RevealInterval == 0 {
		s.Timing.RevealInterval = DefaultRevealInterval
	}
	if s.Timing.Credits == 0 {
		s.Timing.Credits = DefaultCredits
	}
	if s.Timing.HandOverlayWindow == 0 {
		s.Timing.HandOverlayWindow = DefaultHandOverlayWindow
	}
	if s.NarrationPattern == "" {
		s.NarrationPattern = "%s"
	}
}

// Validate checks that the round table is contiguous from 1, that the last
// round is final and that every referenced clip exists.
func (s *Script) Validate() error {
	if len(s.Dialogue) == 0 {
		return ErrEmptyDialogue
	}
	if len(s.Rounds) == 0 {
		return ErrNoRounds
	}
	for i, r := range s.Rounds {
		if r.Round != i+1 {
			return fmt.Errorf("round %d listed at position %d", r.Round, i+1)
		}
		if !r.WinningMove.Valid() {
			return fmt.Errorf("round %d: invalid winning move %q", r.Round, r.WinningMove)
		}
		if r.Final != (i == len(s.Rounds)-1) {
			return fmt.Errorf("round %d: only the last round may be final", r.Round)
		}
		for _, name := range []string{r.RevealClip, r.PunishmentClip} {
			if _, ok := s.Clips[name]; !ok {
				return fmt.Errorf("round %d: %w %q", r.Round, ErrUnknownClip, name)
			}
		}
	}
	if _, ok := s.Clips[s.EndingClip]; !ok {
		return fmt.Errorf("ending: %w %q", ErrUnknownClip, s.EndingClip)
	}
	return nil
}

// Round returns the scripted row for round n. Rounds past the table have no
// script and are played fair.
func (s *Script) Round(n int) (RoundScript, bool) {
	if n < 1 || n > len(s.Rounds) {
		return RoundScript{}, false
	}
	return s.Rounds[n-1], true
}

// ClipFor maps a symbolic cue to its clip.
func (s *Script) ClipFor(cue VideoCue) (Clip, error) {
	var name string
	switch cue.Role {
	case RoleEnding:
		name = s.EndingClip
	case RoleReveal, RolePunishment:
		r, ok := s.Round(cue.Round)
		if !ok {
			return Clip{}, fmt.Errorf("%w: %s", ErrUnknownClip, cue.ID())
		}
		name = r.RevealClip
		if cue.Role == RolePunishment {
			name = r.PunishmentClip
		}
	}
	clip, ok := s.Clips[name]
	if !ok {
		return Clip{}, fmt.Errorf("%w: %s", ErrUnknownClip, cue.ID())
	}
	return clip, nil
}

// NarrationCue names the audio for dialogue line index (0-based) by its
// 1-based zero-padded position.
func NarrationCue(index int) string {
	return fmt.Sprintf("%02d", index+1)
}

// NarrationLocator resolves a narration cue through NarrationPattern.
func (s *Script) NarrationLocator(cue string) string {
	return fmt.Sprintf(s.NarrationPattern, cue)
}
