package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/warp/shift-calendar/generic"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

const recognizePrompt = `You are an OCR engine. Read every text fragment in this photographed work schedule.
The schedule may mix Korean and English (weekday labels such as 월요일, times such as 09:00~18:00, markers such as OFF, 오프, 주휴, and a date range such as 2025.03.03 ~ 2025.03.09).

Return ONLY a JSON object of the form:
{"words": [{"text": "...", "x": 0.0, "y": 0.0}]}

Rules:
- One entry per visually separate text fragment, transcribed exactly.
- x and y are the center of the fragment's bounding box, normalized to [0,1].
- The origin is the TOP-LEFT corner of the image; y grows downward.
- List fragments in reading order.`

// GeminiRecognizer runs OCR through a Gemini multimodal model.
// A single attempt is made per image; failures surface as ErrOCRFailure.
type GeminiRecognizer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiRecognizer creates a recognizer using the given API key.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiRecognizer{client: client, model: model, logger: logger}, nil
}

// Recognize sends the image inline with the OCR prompt.
func (g *GeminiRecognizer) Recognize(ctx context.Context, image []byte) ([]Word, error) {
	info, err := SniffImage(image)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(info.Format, image),
		genai.Text(recognizePrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", generic.ErrOCRFailure, err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrOCRFailure, err)
	}

	words, err := decodeGeminiWords(text)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("gemini recognition finished",
		"model", g.model,
		"format", info.Format,
		"words", len(words))
	return words, nil
}

// Close releases resources held by the client.
func (g *GeminiRecognizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractTextFromResponse concatenates the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// decodeGeminiWords parses the model output, which uses a top-left origin,
// into bottom-origin words. Entries with blank text or coordinates outside
// [0,1] are dropped.
func decodeGeminiWords(text string) ([]Word, error) {
	var payload struct {
		Words []Word `json:"words"`
	}
	if err := json.Unmarshal([]byte(CleanJSONBlock(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode model output: %v", generic.ErrOCRFailure, err)
	}

	words := make([]Word, 0, len(payload.Words))
	for _, w := range payload.Words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		if w.X < 0 || w.X > 1 || w.Y < 0 || w.Y > 1 {
			continue
		}
		words = append(words, Word{Text: w.Text, X: w.X, Y: 1 - w.Y})
	}
	return words, nil
}
