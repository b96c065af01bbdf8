package engine

import "testing"

func TestDialogueReveal(t *testing.T) {
	d := NewDialogue([]string{"héllo", "bye"})
	d.Begin()

	if d.Text() != "" {
		t.Fatalf("Expected nothing revealed, got %q", d.Text())
	}
	for i := 0; i < 4; i++ {
		if !d.Tick() {
			t.Fatalf("Tick %d: expected more runes to reveal", i)
		}
	}
	if got := d.Text(); got != "héll" {
		t.Errorf("Expected %q, got %q", "héll", got)
	}
	if d.Tick() {
		t.Error("Expected the line to be fully revealed")
	}
	if d.Tick() {
		t.Error("Tick past the end should be a no-op")
	}
	if d.Text() != "héllo" {
		t.Errorf("Unexpected text %q", d.Text())
	}
}

func TestDialogueAdvance(t *testing.T) {
	d := NewDialogue([]string{"one", "two", "three"})
	d.Begin()

	if step := d.Advance(); step != StepRevealed {
		t.Fatalf("Expected StepRevealed, got %v", step)
	}
	if d.Index() != 0 || !d.Revealed() {
		t.Fatal("First advance should only complete the current line")
	}

	if step := d.Advance(); step != StepNextLine {
		t.Fatalf("Expected StepNextLine, got %v", step)
	}
	if d.Index() != 1 {
		t.Fatalf("Expected line 1, got %d", d.Index())
	}
	if d.Revealed() {
		t.Error("A new line should start hidden")
	}

	d.RevealAll()
	d.Advance()
	d.RevealAll()
	if !d.Last() {
		t.Fatal("Expected to be on the last line")
	}
	if step := d.Advance(); step != StepFinished {
		t.Fatalf("Expected StepFinished, got %v", step)
	}
	if d.Index() != 2 {
		t.Errorf("Finishing must not move the index, got %d", d.Index())
	}
}
