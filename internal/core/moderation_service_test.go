package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a canned response and records the prompt it was given.
type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func TestModerationService_VerdictParsing(t *testing.T) {
	cases := []struct {
		name     string
		response string
		valid    bool
	}{
		{"plain yes", "YES", true},
		{"lowercase yes", "yes, this looks plausible enough.", true},
		{"mixed case yes", "Yes. The proposal is vague but viable.", true},
		{"leading whitespace", "   YES - acceptable", true},
		{"leading newline", "\nYES\nBecause the criteria are lenient.", true},
		{"plain no", "NO", false},
		{"lowercase no", "no, this is demonstrably impossible.", false},
		{"yes buried mid-sentence", "I would say YES eventually, but NO for now.", false},
		{"empty response", "", false},
		{"hedge without verdict", "Maybe. It depends.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{response: tc.response}
			svc := newModerationServiceWithGenerator(gen)

			result, err := svc.Validate(context.Background(), "Solar Well", "Water for the village", "3")
			require.NoError(t, err)
			assert.Equal(t, tc.valid, result.IsValid)
			assert.Equal(t, tc.response, result.Explanation, "explanation carries the raw response")
		})
	}
}

func TestModerationService_PromptContents(t *testing.T) {
	gen := &stubGenerator{response: "YES"}
	svc := newModerationServiceWithGenerator(gen)

	_, err := svc.Validate(context.Background(), "Solar Well", "Water for the village", "3.5")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Title: Solar Well")
	assert.Contains(t, gen.prompt, "Description: Water for the village")
	assert.Contains(t, gen.prompt, "Expected Funding: 3.5 Ether")
	assert.Contains(t, gen.prompt, "Assume maximum good faith.")
}

func TestModerationService_GeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model overloaded")}
	svc := newModerationServiceWithGenerator(gen)

	result, err := svc.Validate(context.Background(), "t", "d", "1")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestNewModerationService_RequiresAPIKey(t *testing.T) {
	_, err := NewModerationService(context.Background(), "", "gemini-2.0-flash")
	assert.ErrorIs(t, err, ErrModerationDisabled)
}
