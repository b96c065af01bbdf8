package media

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPlayerWithoutCommand(t *testing.T) {
	p := NewPlayer("", zerolog.Nop())
	if p.Enabled() {
		t.Fatal("Expected a disabled player")
	}
	if err := p.Play("01"); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("Expected ErrNoPlayer, got %v", err)
	}
	p.Stop()
}

func TestPlayerReplacesHandle(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	p := NewPlayer("sleep", zerolog.Nop())
	defer p.Stop()

	if err := p.Play("5"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	first := p.cmd
	if err := p.Play("6"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if p.Current() != "6" {
		t.Errorf("Expected the new locator, got %q", p.Current())
	}
	if p.cmd == first {
		t.Error("Expected a fresh handle")
	}

	p.Stop()
	if p.Current() != "" {
		t.Errorf("Expected nothing playing after Stop, got %q", p.Current())
	}
}

func TestPlayerStartFailure(t *testing.T) {
	p := NewPlayer("definitely-not-a-real-player-binary", zerolog.Nop())
	if err := p.Play("01"); err == nil {
		t.Fatal("Expected an error for a missing binary")
	}
	if p.Current() != "" {
		t.Error("A failed start must not hold the handle")
	}
}

func TestTimeline(t *testing.T) {
	tl := NewTimeline(time.Second)
	if tl.Advance(400 * time.Millisecond) {
		t.Fatal("Ended too early")
	}
	if got := tl.Progress(); got < 0.39 || got > 0.41 {
		t.Errorf("Expected progress 0.4, got %f", got)
	}
	if !tl.Advance(700 * time.Millisecond) {
		t.Fatal("Expected the clip to end")
	}
	if tl.Elapsed != time.Second || tl.Progress() != 1 {
		t.Errorf("Clock should clamp at the end, got %s", tl.Elapsed)
	}
	if NewTimeline(0).Progress() != 1 {
		t.Error("An empty clip counts as played")
	}
}
