package service

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider is the alternative chat-completion backend. It has no web
// grounding, so UseSearch requests fall back to plain completions and return
// no sources.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider constructs an OpenAI-backed provider.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key must be set")
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}, nil
}

// Name identifies the provider in logs.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate performs one chat completion.
func (p *OpenAIProvider) Generate(ctx context.Context, req ProviderRequest) (ProviderResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}

	if len(req.Image) > 0 {
		imageURL := fmt.Sprintf("data:%s;base64,%s", req.ImageMIMEType, base64.StdEncoding.EncodeToString(req.Image))
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
			},
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.JSONOutput && !req.UseSearch && len(req.Image) == 0 {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return ProviderResult{}, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return ProviderResult{}, fmt.Errorf("empty response from OpenAI")
	}

	return ProviderResult{Text: stripCodeFence(resp.Choices[0].Message.Content)}, nil
}
