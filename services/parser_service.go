package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/NygerianPrynce/kalTrackV2/apperror"
	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/utils"
)

const systemPrompt = `You are a nutrition parser. Analyze the meal description and output ONLY valid JSON matching this exact schema. No markdown. No extra keys. No explanations.

Schema:
{
  "meal_summary": "Brief description of the meal",
  "items": [
    {
      "name": "Food item name",
      "qty": "Quantity description (e.g., '1 cup', '200g', '2 slices')",
      "calories": 0,
      "protein_g": 0.0,
      "carbs_g": 0.0,
      "fat_g": 0.0,
      "fiber_g": 0.0,
      "sugar_g": 0.0,
      "sodium_mg": 0.0
    }
  ],
  "totals": {
    "calories": 0,
    "protein_g": 0.0,
    "carbs_g": 0.0,
    "fat_g": 0.0,
    "fiber_g": 0.0,
    "sugar_g": 0.0,
    "sodium_mg": 0.0
  },
  "confidence": 0.5,
  "assumptions": []
}

Rules:
- If portion sizes are missing, assume common serving sizes and list them in assumptions.
- If ambiguous (e.g., "sandwich"), pick a reasonable default and lower confidence (0.3-0.6).
- Clamp all negative numbers to 0.
- Round calories to integers, macros to 1 decimal place.
- Always include totals that sum all items.
- Provide confidence 0.0-1.0 based on clarity of description.
- List any assumptions made in the assumptions array.`

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

// Completer is the AI collaborator: one prompt/response round-trip.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ParserService turns free-text meal descriptions into validated meal data
// by way of the AI collaborator. All model output is treated as untrusted:
// fields are checked one by one and the model's own totals are discarded.
type ParserService struct {
	ai Completer
}

func NewParserService(ai Completer) *ParserService {
	return &ParserService{ai: ai}
}

// ParsedMeal is the normalized result of one parse call.
type ParsedMeal struct {
	MealSummary string
	Items       models.MealItems
	Totals      models.MealTotals
	Confidence  float64
	Assumptions []string
}

// rawMeal is the untyped intermediate the wire JSON lands in. Totals and
// assumptions stay raw: totals are never trusted and assumptions may be
// any shape.
type rawMeal struct {
	MealSummary string          `json:"meal_summary"`
	Items       []rawItem       `json:"items"`
	Totals      json.RawMessage `json:"totals"`
	Confidence  float64         `json:"confidence"`
	Assumptions json.RawMessage `json:"assumptions"`
}

type rawItem struct {
	Name     string   `json:"name"`
	Qty      string   `json:"qty"`
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g"`
	SodiumMg *float64 `json:"sodium_mg"`
}

// ParseMeal runs the full parse pipeline: prompt, decode, normalize. A
// response that is not decodable JSON, or that lacks an items array, earns
// exactly one retry with a fix-it prompt; a second failure is fatal.
func (s *ParserService) ParseMeal(ctx context.Context, text string) (*ParsedMeal, error) {
	parsed, err := s.attempt(ctx, fmt.Sprintf("Parse this meal description: %q", text))
	if err == nil {
		return parsed, nil
	}

	if !errors.Is(err, apperror.ErrAIParse) {
		return nil, err
	}

	retryPrompt := fmt.Sprintf("%s\n\nFix the JSON response for this meal: %q", systemPrompt, text)
	parsed, retryErr := s.attempt(ctx, retryPrompt)
	if retryErr != nil {
		return nil, retryErr
	}
	return parsed, nil
}

func (s *ParserService) attempt(ctx context.Context, userPrompt string) (*ParsedMeal, error) {
	content, err := s.ai.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	jsonStr := strings.TrimSpace(content)
	if strings.HasPrefix(jsonStr, "```") {
		jsonStr = fenceOpen.ReplaceAllString(jsonStr, "")
		jsonStr = fenceClose.ReplaceAllString(jsonStr, "")
	}

	var raw rawMeal
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, apperror.AIParse(err.Error())
	}
	if raw.Items == nil {
		return nil, apperror.AIParse("response has no items array")
	}
	return normalize(&raw), nil
}

// normalize applies the defaulting, clamping and rounding contract and
// recomputes totals as the field-wise sum over the normalized items. The
// model's arithmetic is never trusted.
func normalize(raw *rawMeal) *ParsedMeal {
	items := make(models.MealItems, 0, len(raw.Items))
	for _, it := range raw.Items {
		item := models.MealItem{
			Name:     it.Name,
			Qty:      it.Qty,
			Calories: utils.RoundCalories(it.Calories),
			ProteinG: utils.RoundMacro(it.ProteinG),
			CarbsG:   utils.RoundMacro(it.CarbsG),
			FatG:     utils.RoundMacro(it.FatG),
			FiberG:   utils.RoundMacro(it.FiberG),
		}
		if item.Name == "" {
			item.Name = "Unknown"
		}
		if item.Qty == "" {
			item.Qty = "1 serving"
		}
		if it.SugarG != nil {
			v := utils.RoundMacro(*it.SugarG)
			item.SugarG = &v
		}
		if it.SodiumMg != nil {
			v := utils.RoundMacro(*it.SodiumMg)
			item.SodiumMg = &v
		}
		items = append(items, item)
	}

	totals := recomputeTotals(items)

	confidence := raw.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	confidence = math.Max(0, math.Min(1, confidence))

	summary := raw.MealSummary
	if summary == "" {
		summary = "Meal"
	}

	return &ParsedMeal{
		MealSummary: summary,
		Items:       items,
		Totals:      totals,
		Confidence:  confidence,
		Assumptions: coerceAssumptions(raw.Assumptions),
	}
}

// recomputeTotals sums the normalized items. An optional field appears in
// the totals if and only if at least one item carried it, even when the sum
// is zero; absence means unknown, not zero.
func recomputeTotals(items models.MealItems) models.MealTotals {
	var calories, protein, carbs, fat, fiber, sugar, sodium float64
	var hasSugar, hasSodium bool
	for _, it := range items {
		calories += float64(it.Calories)
		protein += it.ProteinG
		carbs += it.CarbsG
		fat += it.FatG
		fiber += it.FiberG
		if it.SugarG != nil {
			sugar += *it.SugarG
			hasSugar = true
		}
		if it.SodiumMg != nil {
			sodium += *it.SodiumMg
			hasSodium = true
		}
	}

	totals := models.MealTotals{
		Calories: utils.RoundCalories(calories),
		ProteinG: utils.RoundMacro(protein),
		CarbsG:   utils.RoundMacro(carbs),
		FatG:     utils.RoundMacro(fat),
		FiberG:   utils.RoundMacro(fiber),
	}
	if hasSugar {
		v := utils.RoundMacro(sugar)
		totals.SugarG = &v
	}
	if hasSodium {
		v := utils.RoundMacro(sodium)
		totals.SodiumMg = &v
	}
	return totals
}

// coerceAssumptions accepts only a JSON array; anything else becomes an
// empty list. Non-string elements are stringified rather than dropped.
func coerceAssumptions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var elems []interface{}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(e))
		}
	}
	return out
}

// GenerateSpeech builds the one-line read-back for a logged meal, hedging
// when the parse confidence is low.
func GenerateSpeech(totals models.MealTotals, confidence float64) string {
	cal := totals.Calories
	protein := int(math.Round(totals.ProteinG))
	fiber := int(math.Round(totals.FiberG))

	if confidence < 0.5 {
		return fmt.Sprintf("Logged approximately %d calories, about %d grams protein, %d grams fiber.", cal, protein, fiber)
	}
	return fmt.Sprintf("Logged %d calories, %d grams protein, %d grams fiber.", cal, protein, fiber)
}
