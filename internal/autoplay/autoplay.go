// Package autoplay picks moves for the headless simulator.
package autoplay

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/rigged-rps/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/choose_move.txt
var chooseMovePrompt string

var chooseMoveTmpl = template.Must(template.New("choose_move").Parse(chooseMovePrompt))

// ErrNoMove is returned when a reply names no gesture.
var ErrNoMove = errors.New("no move in reply")

// Throw is one committed round as the autoplayer saw it.
type Throw struct {
	Player  models.Move
	CPU     models.Move
	Outcome models.Outcome
}

// State is what a Chooser may look at.
type State struct {
	Round   int
	Score   models.Score
	History []Throw
}

type Chooser interface {
	Choose(ctx context.Context, s State) (models.Move, error)
}

// Intn is satisfied by *rand.Rand from math/rand/v2.
type Intn interface{ IntN(int) int }

type RandomPlayer struct {
	rnd Intn
}

func NewRandomPlayer(rnd Intn) *RandomPlayer {
	return &RandomPlayer{rnd: rnd}
}

func (p *RandomPlayer) Choose(context.Context, State) (models.Move, error) {
	return models.Moves[p.rnd.IntN(len(models.Moves))], nil
}

// GeminiPlayer asks a Gemini model for each throw.
type GeminiPlayer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiPlayer(ctx context.Context, apiKey string) (*GeminiPlayer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiPlayer{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
	}, nil
}

func (p *GeminiPlayer) Close() {
	p.client.Close()
}

func (p *GeminiPlayer) Choose(ctx context.Context, s State) (models.Move, error) {
	prompt, err := RenderPrompt(s)
	if err != nil {
		return "", err
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return ParseMove(string(text))
}

func RenderPrompt(s State) (string, error) {
	var buf bytes.Buffer
	if err := chooseMoveTmpl.Execute(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseMove returns the first gesture named in a free-form reply.
func ParseMove(reply string) (models.Move, error) {
	words := strings.FieldsFunc(strings.ToLower(reply), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if m := models.Move(w); m.Valid() {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoMove, reply)
}
