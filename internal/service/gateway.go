package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vitashifa/backend/internal/types"
)

const defaultSystemInstruction = "You are a helpful medical information assistant. Provide clear, concise, and accurate information. Your responses should be empathetic and informative. Crucially, always remind the user that your advice is not a substitute for professional medical consultation and to consult a healthcare professional for any medical concerns or before making any health decisions."

const consultInstruction = "You are a medical AI assistant. Answer the user's health-related question comprehensively and accurately. Cover symptoms, potential conditions, and general treatment approaches. Stress the importance of seeking diagnosis and treatment from a qualified medical doctor."

const drugInfoInstruction = "You are a medical AI specializing in pharmacology. Provide detailed, accurate information about the drug queried, including its uses, dosage, side effects, interactions, and alternatives if applicable. Format the response clearly. Emphasize that this information is not a substitute for consultation with a healthcare professional."

const imageAnalysisInstruction = "You are an AI specialized in medical image analysis. Analyze the provided image based on the user's prompt. Describe your observations in detail, identify potential abnormalities, and suggest general areas for follow-up with a qualified radiologist or medical specialist. State clearly that your analysis is not a diagnosis and professional medical consultation is essential."

const wellnessInstructionFmt = "You are an AI health coach. Based on the provided health information (chronic conditions: %s; symptoms: %s; lifestyle: %s; goals: %s), generate a personalized health plan. Include advice on diet, exercise, symptom tracking, and mental wellness. Provide actionable, general recommendations. Emphasize that this plan is for informational purposes and should be discussed with a healthcare provider before implementation."

const emergencyInstruction = "You are an AI providing emergency first aid information. Your priority is safety. ALWAYS START by advising the user to call emergency services (e.g., 911) if the situation is serious or life-threatening. Then, provide clear, step-by-step first aid instructions relevant to the described situation. Keep instructions concise and easy to follow under pressure. Reiterate that these instructions are for immediate assistance until professional help arrives and are not a substitute for professional medical care."

// jsonSchemaHint asks for the structured answer shape in the instruction
// text itself, since grounded calls cannot set a JSON response MIME type.
const jsonSchemaHint = `When possible, structure your answer as a JSON object with this shape: {"title": string, "summary": string, "sections": [{"heading": string, "content": string, "type": "info"|"warning"|"success"|"list", "items": [string]}]}. Plain prose is acceptable if the answer does not fit this structure.`

// AIGateway exposes the health-assistant use cases. Every method reports
// provider failures in-band as an "API Error:" prefixed text rather than a
// Go error, so callers always receive displayable text.
type AIGateway interface {
	Consult(ctx context.Context, query, language string) ProviderResult
	DrugInfo(ctx context.Context, query, language string) ProviderResult
	AnalyzeImage(ctx context.Context, image []byte, mimeType, instructions, language string) ProviderResult
	PlanWellness(ctx context.Context, input types.WellnessInput, language string) ProviderResult
	GuideEmergency(ctx context.Context, situation, language string) ProviderResult
	Enabled() bool
}

// Gateway routes each use case to the configured provider with the matching
// system instruction. A nil provider yields a configuration-error result
// instead of a panic so the API can run without an AI key.
type Gateway struct {
	provider Provider
	timeout  time.Duration
}

// NewGateway constructs the gateway. provider may be nil when no API key is
// configured; timeout bounds each provider call.
func NewGateway(provider Provider, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Gateway{provider: provider, timeout: timeout}
}

// Enabled reports whether a provider is configured.
func (g *Gateway) Enabled() bool { return g.provider != nil }

func (g *Gateway) generate(ctx context.Context, req ProviderRequest, language string) ProviderResult {
	if g.provider == nil {
		return apiError("AI provider API key is not configured. Please set the provider API key environment variable. The application's core functionalities will not work until this is resolved.")
	}
	if req.SystemInstruction == "" {
		req.SystemInstruction = defaultSystemInstruction
	}
	if language != "" && !strings.EqualFold(language, "en") {
		req.SystemInstruction += fmt.Sprintf(" Respond in the language with code %q.", language)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("AI provider %s error: %v", g.provider.Name(), err)
		msg := err.Error()
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "api key not valid") || strings.Contains(lower, "invalid api key") {
			msg = "The configured API Key is invalid or has been rejected by the service. Please verify your API key environment variable."
		}
		return apiError(msg)
	}
	return result
}

// Consult answers a general health question with web grounding.
func (g *Gateway) Consult(ctx context.Context, query, language string) ProviderResult {
	return g.generate(ctx, ProviderRequest{
		SystemInstruction: consultInstruction + " " + jsonSchemaHint,
		Prompt:            query,
		UseSearch:         true,
	}, language)
}

// DrugInfo answers a medication question with web grounding.
func (g *Gateway) DrugInfo(ctx context.Context, query, language string) ProviderResult {
	return g.generate(ctx, ProviderRequest{
		SystemInstruction: drugInfoInstruction,
		Prompt:            query,
		UseSearch:         true,
	}, language)
}

// AnalyzeImage examines a medical image in light of the user's instructions.
func (g *Gateway) AnalyzeImage(ctx context.Context, image []byte, mimeType, instructions, language string) ProviderResult {
	return g.generate(ctx, ProviderRequest{
		SystemInstruction: imageAnalysisInstruction,
		Prompt:            instructions,
		Image:             image,
		ImageMIMEType:     mimeType,
	}, language)
}

// PlanWellness generates a personalized health management plan.
func (g *Gateway) PlanWellness(ctx context.Context, input types.WellnessInput, language string) ProviderResult {
	conditions := strings.Join(input.Conditions, ", ")
	instruction := fmt.Sprintf(wellnessInstructionFmt,
		conditions, input.Symptoms, input.Lifestyle, input.Goals)
	prompt := fmt.Sprintf(`Provide a health management plan based on these details:
Chronic Conditions: %s
Current Symptoms: %s
Lifestyle Factors: %s
Health Goals: %s`,
		orDefault(conditions, "None specified"),
		orDefault(input.Symptoms, "None specified"),
		orDefault(input.Lifestyle, "Not specified"),
		orDefault(input.Goals, "Not specified"))

	return g.generate(ctx, ProviderRequest{
		SystemInstruction: instruction,
		Prompt:            prompt,
		JSONOutput:        true,
	}, language)
}

// GuideEmergency returns first-aid guidance for an emergency situation.
func (g *Gateway) GuideEmergency(ctx context.Context, situation, language string) ProviderResult {
	return g.generate(ctx, ProviderRequest{
		SystemInstruction: emergencyInstruction,
		Prompt:            situation,
		JSONOutput:        true,
	}, language)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
