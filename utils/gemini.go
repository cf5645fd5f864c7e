package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/recommend"
)

// GeminiTips generates styling tips for a composed outfit with Gemini. It is
// only wired in when an API key is configured; the engine falls back to its
// built-in templates otherwise.
type GeminiTips struct {
	modelName string
}

var _ recommend.TipWriter = (*GeminiTips)(nil)

func NewGeminiTips() *GeminiTips {
	return &GeminiTips{modelName: "gemini-1.5-flash"}
}

func (g *GeminiTips) StylingTips(ctx context.Context, occasion string, comp *recommend.Composition) (string, error) {
	if config.GeminiAPIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	var names []string
	for _, item := range comp.Items() {
		names = append(names, item.Name)
	}

	prompt := fmt.Sprintf(
		"Give two short, practical styling tips for wearing this outfit to a %s occasion: %s. "+
			"Reply with plain sentences only, no lists or markdown.",
		occasion, strings.Join(names, ", "))

	model := client.GenerativeModel(g.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	tips := strings.TrimSpace(sb.String())
	if tips == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return tips, nil
}

// GeminiRecommendedItem is a wardrobe item chosen by the model, annotated
// with its reasoning.
type GeminiRecommendedItem struct {
	models.WardrobeItem
	Reasoning string `json:"reasoning,omitempty"`
}

// GeminiRecommendation is the model-driven recommendation payload.
type GeminiRecommendation struct {
	Occasion    string                  `json:"occasion"`
	Items       []GeminiRecommendedItem `json:"items"`
	StylingTips string                  `json:"stylingTips"`
	Confidence  float64                 `json:"confidence"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// GeminiRecommendOutfit asks Gemini to pick a complete outfit from the posted
// wardrobe. The model answers with item names; anything it invents that is
// not in the wardrobe is dropped.
func GeminiRecommendOutfit(ctx context.Context, occasion string, items []models.WardrobeItem) (*GeminiRecommendation, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	var inventory strings.Builder
	for _, item := range items {
		fmt.Fprintf(&inventory, "- %s (Category: %s, Tags: %s)\n",
			item.Name, item.Category, strings.Join(item.Tags, ", "))
	}

	prompt := fmt.Sprintf(`You are a fashion expert AI assistant. Based on the user's wardrobe items and the occasion %q, recommend a complete outfit.

Available wardrobe items:
%s
Recommend a complete outfit for %q using ONLY items from the wardrobe above.

Return your response in this exact JSON format:
{"occasion": %q, "recommendedItems": [{"name": "exact item name from wardrobe", "category": "item category", "reasoning": "why this item fits"}], "stylingTips": "brief styling advice", "confidence": 0.85}

Only use items that exist in the wardrobe list, cover top, bottom and shoes when available, and return valid JSON only with no additional text.`,
		occasion, inventory.String(), occasion, occasion)

	model := client.GenerativeModel("gemini-1.5-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	// The model sometimes wraps the JSON in prose or code fences.
	text := raw.String()
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON in model response")
	}

	var parsed struct {
		Occasion         string `json:"occasion"`
		RecommendedItems []struct {
			Name      string `json:"name"`
			Reasoning string `json:"reasoning"`
		} `json:"recommendedItems"`
		StylingTips string  `json:"stylingTips"`
		Confidence  float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}

	byName := make(map[string]models.WardrobeItem, len(items))
	for _, item := range items {
		byName[strings.ToLower(item.Name)] = item
	}

	rec := &GeminiRecommendation{
		Occasion:    occasion,
		StylingTips: parsed.StylingTips,
		Confidence:  parsed.Confidence,
		CreatedAt:   time.Now(),
	}
	if rec.Confidence == 0 {
		rec.Confidence = 0.8
	}
	for _, pick := range parsed.RecommendedItems {
		if item, ok := byName[strings.ToLower(pick.Name)]; ok {
			rec.Items = append(rec.Items, GeminiRecommendedItem{WardrobeItem: item, Reasoning: pick.Reasoning})
		}
	}
	if len(rec.Items) == 0 {
		return nil, fmt.Errorf("model selected no wardrobe items")
	}
	return rec, nil
}
