package engine

// Step is what a single Advance did.
type Step int

const (
	StepRevealed Step = iota // finished revealing the current line
	StepNextLine             // moved to the next line
	StepFinished             // advanced past the last line
)

// Dialogue walks a fixed list of lines, revealing each one rune by rune.
// It holds no timers; the engine drives Tick.
type Dialogue struct {
	lines    [][]rune
	index    int
	revealed int
}

func NewDialogue(lines []string) *Dialogue {
	d := &Dialogue{lines: make([][]rune, len(lines))}
	for i, l := range lines {
		d.lines[i] = []rune(l)
	}
	return d
}

// Begin rewinds to the first line with nothing revealed.
func (d *Dialogue) Begin() {
	d.index = 0
	d.revealed = 0
}

func (d *Dialogue) Index() int { return d.index }

func (d *Dialogue) Last() bool { return d.index >= len(d.lines)-1 }

func (d *Dialogue) Revealed() bool {
	return len(d.lines) == 0 || d.revealed >= len(d.lines[d.index])
}

// Tick reveals one more rune and reports whether any remain hidden.
func (d *Dialogue) Tick() bool {
	if !d.Revealed() {
		d.revealed++
	}
	return !d.Revealed()
}

func (d *Dialogue) RevealAll() {
	if len(d.lines) > 0 {
		d.revealed = len(d.lines[d.index])
	}
}

// Text is the revealed part of the current line.
func (d *Dialogue) Text() string {
	if len(d.lines) == 0 {
		return ""
	}
	return string(d.lines[d.index][:d.revealed])
}

// Advance completes the current line, or moves to the next one, or reports
// that the last line has been read. It never moves more than one line.
func (d *Dialogue) Advance() Step {
	switch {
	case !d.Revealed():
		d.RevealAll()
		return StepRevealed
	case !d.Last():
		d.index++
		d.revealed = 0
		return StepNextLine
	default:
		return StepFinished
	}
}
