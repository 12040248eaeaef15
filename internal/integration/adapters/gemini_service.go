package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
)

// GeminiService implements the SuggestionService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// SuggestClass asks the model to pick the budget class that best fits the
// transaction text.
func (s *GeminiService) SuggestClass(ctx context.Context, vendor, description string, candidates []*entity.BudgetClass) (*adapter.ClassSuggestion, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate classes to suggest from")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(s.buildPrompt(vendor, description, candidates)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return s.parseResponse(resp, candidates)
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(vendor, description string, candidates []*entity.BudgetClass) string {
	var sb strings.Builder

	sb.WriteString(`You classify personal budget transactions. Given a transaction's vendor and description, pick the single budget class that best fits it from the list below. Keyword overlap with the class's keywords is the strongest signal.

BUDGET CLASSES:
`)
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("- ID: %s, Name: %s, Type: %s, Keywords: %s\n",
			c.ID, c.Name, c.Type, strings.Join(c.Keywords, ", ")))
	}

	sb.WriteString(fmt.Sprintf(`
TRANSACTION:
- Vendor: %q
- Description: %q

Respond with one JSON object:
{
  "class_id": "id of the chosen class",
  "confidence": 0.0-1.0,
  "reasoning": "one short sentence"
}

RESPONSE FORMAT: return only the JSON object, no extra text.
`, vendor, description))

	return sb.String()
}

// geminiClassPick represents the raw response from Gemini.
type geminiClassPick struct {
	ClassID    string  `json:"class_id"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// parseResponse parses the Gemini response into a ClassSuggestion.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse, candidates []*entity.BudgetClass) (*adapter.ClassSuggestion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var pick geminiClassPick
	if err := json.Unmarshal([]byte(textContent), &pick); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	for _, c := range candidates {
		if c.ID == pick.ClassID {
			return &adapter.ClassSuggestion{
				ClassID:    c.ID,
				ClassName:  c.Name,
				Confidence: pick.Confidence,
				Reasoning:  pick.Reasoning,
			}, nil
		}
	}
	return nil, fmt.Errorf("gemini suggested unknown class id %q", pick.ClassID)
}
