package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// APIErrorPrefix marks an in-band failure in ProviderResult.Text. Callers
// that only care about success/failure check this prefix; Err exposes the
// same condition as a typed error.
const APIErrorPrefix = "API Error:"

// ProviderRequest is one completion request, provider-independent.
type ProviderRequest struct {
	SystemInstruction string
	Prompt            string
	Image             []byte
	ImageMIMEType     string
	JSONOutput        bool
	UseSearch         bool
}

// ProviderResult is the normalized provider output: the raw response text
// plus any web-grounding source URLs the provider consulted.
type ProviderResult struct {
	Text             string   `json:"text"`
	GroundingSources []string `json:"grounding_sources,omitempty"`
}

// Err returns a non-nil error when the result carries an in-band API error.
func (r ProviderResult) Err() error {
	if !IsAPIError(r.Text) {
		return nil
	}
	return errors.New(strings.TrimSpace(strings.TrimPrefix(r.Text, APIErrorPrefix)))
}

// IsAPIError reports whether text is a gateway failure sentinel.
func IsAPIError(text string) bool {
	return strings.HasPrefix(text, APIErrorPrefix)
}

func apiError(message string) ProviderResult {
	return ProviderResult{Text: APIErrorPrefix + " " + message}
}

// Provider is a completion backend. Implementations return transport and
// provider errors as plain errors; the Gateway converts them to the in-band
// sentinel form.
type Provider interface {
	// Generate performs one completion call.
	Generate(ctx context.Context, req ProviderRequest) (ProviderResult, error)
	// Name identifies the provider in logs.
	Name() string
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:[a-zA-Z]*)?\\s*\\n?(.*?)\\n?\\s*```$")

// stripCodeFence removes a surrounding markdown code fence, which models
// frequently wrap JSON output in despite instructions.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}
