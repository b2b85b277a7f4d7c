package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrModerationDisabled is returned when no generative-model API key is
// configured.
var ErrModerationDisabled = errors.New("proposal moderation is not configured")

// proposalPrompt is the fixed, maximally lenient prompt sent for every
// proposal. The verdict is read off the first token of the response; the rest
// is kept as the explanation.
const proposalPrompt = `Evaluate the following crowdfunding campaign proposal to be listed on Project Nidhi, a blockchain-based crowdfunding platform. Consider the title and description based on these extremely lenient criteria:

    Relevance: Does the title and description vaguely hint at a possible purpose? Assume the creator is extremely limited in communication skills.
    Clarity: Does the description, however minimal, not entirely contradict the possibility of a problem, solution, and execution? Assume further details are forthcoming.
    Feasibility: Is the project not obviously impossible given current technology and the funding amount? Assume the creator has a secret plan.
    Potential Impact: Is it not inconceivable that the project could have some positive impact, however broadly defined?

    Respond with "YES" if, by the most generous interpretation possible, the proposal might be viable. Respond with "NO" only if the proposal is demonstrably nonsensical or impossible. Assume maximum good faith.

    Campaign Details:
    Title: %s
    Description: %s
    Expected Funding: %s Ether
    Explain your answer too.`

// textGenerator abstracts the single generative-model call the moderation
// service makes, so verdict parsing is testable without network access.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// geminiGenerator implements textGenerator over the Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}

// moderationService implements the ModerationService interface.
type moderationService struct {
	generator textGenerator
}

// NewModerationService creates a ModerationService backed by the Gemini API.
func NewModerationService(ctx context.Context, apiKey, model string) (ModerationService, error) {
	if apiKey == "" {
		return nil, ErrModerationDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &moderationService{generator: &geminiGenerator{client: client, model: model}}, nil
}

// newModerationServiceWithGenerator is used by tests to substitute the model.
func newModerationServiceWithGenerator(g textGenerator) ModerationService {
	return &moderationService{generator: g}
}

// Validate sends the proposal to the model and classifies the verdict: the
// proposal is valid when the trimmed response starts with "YES", case
// insensitively. Any transport or model error is a hard failure; nothing is
// retried.
func (s *moderationService) Validate(ctx context.Context, title, description, targetAmount string) (*ModerationResult, error) {
	if s.generator == nil {
		return nil, ErrModerationDisabled
	}

	prompt := fmt.Sprintf(proposalPrompt, title, description, targetAmount)
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	verdict := strings.HasPrefix(strings.ToUpper(strings.TrimSpace(text)), "YES")
	return &ModerationResult{
		IsValid:     verdict,
		Explanation: text,
	}, nil
}
