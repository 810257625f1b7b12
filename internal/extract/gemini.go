package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// Temperature keeps extraction output stable between runs.
const Temperature float32 = 0.1

// DefaultModel is used when the configuration leaves the model empty.
const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("model returned no content")

// GeminiGenerator calls the Gemini API through the official genai client.
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: API key is required (set GEMINI_API_KEY)")
	}
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiGenerator{cli: cli, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return "Gemini:" + g.model }

// Generate sends the prompt followed by the parts and returns the model's
// JSON text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	content := &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}
	for _, p := range parts {
		if len(p.Data) > 0 {
			content.Parts = append(content.Parts, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
			continue
		}
		content.Parts = append(content.Parts, &genai.Part{Text: p.Text})
	}

	temp := Temperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature:       &temp,
			ResponseMIMEType:  "application/json",
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemInstruction}}},
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
