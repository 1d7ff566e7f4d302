package service

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API. Web grounding uses the GoogleSearch
// tool; grounded calls cannot also request a JSON response MIME type, so the
// prompt is expected to ask for JSON where needed.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider constructs a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Name identifies the provider in logs.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate performs one completion call.
func (p *GeminiProvider) Generate(ctx context.Context, req ProviderRequest) (ProviderResult, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.UseSearch {
		cfg.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	} else if req.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	if len(req.Image) > 0 {
		contents = []*genai.Content{{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: req.ImageMIMEType, Data: req.Image}},
				{Text: req.Prompt},
			},
		}}
	} else {
		contents = genai.Text(req.Prompt)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return ProviderResult{}, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return ProviderResult{}, fmt.Errorf("no candidates in Gemini response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ProviderResult{}, fmt.Errorf("no content in Gemini response (finish reason: %v)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	result := ProviderResult{
		Text:             stripCodeFence(sb.String()),
		GroundingSources: groundingSources(candidate),
	}
	if result.Text == "" {
		return ProviderResult{}, fmt.Errorf("empty response text from Gemini")
	}
	return result, nil
}

// groundingSources extracts the unique web URIs the model grounded on,
// preserving order.
func groundingSources(c *genai.Candidate) []string {
	if c.GroundingMetadata == nil {
		return nil
	}

	var sources []string
	seen := make(map[string]bool)
	for _, chunk := range c.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, chunk.Web.URI)
	}
	return sources
}
