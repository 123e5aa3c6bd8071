package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/shift-calendar/generic"
)

// Origin names where a word list's Y axis starts.
type Origin string

const (
	OriginBottom Origin = "bottom"
	OriginTop    Origin = "top"
)

// wordList accepts either a bare array or {"words": [...]}.
type wordList struct {
	Origin Origin `json:"origin"`
	Words  []Word `json:"words"`
}

// DecodeWords parses a JSON word list. Coordinates are taken as bottom-origin
// unless the document says "origin": "top".
func DecodeWords(data []byte) ([]Word, error) {
	text := CleanJSONBlock(string(data))
	if text == "" {
		return nil, fmt.Errorf("%w: empty word list", generic.ErrOCRFailure)
	}

	var words []Word
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &words); err != nil {
			return nil, fmt.Errorf("%w: decode words: %v", generic.ErrOCRFailure, err)
		}
		return words, nil
	}

	var list wordList
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, fmt.Errorf("%w: decode words: %v", generic.ErrOCRFailure, err)
	}
	if list.Origin == OriginTop {
		return FlipY(list.Words), nil
	}
	return list.Words, nil
}

// FlipY converts top-origin coordinates to the bottom-origin convention.
func FlipY(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{Text: w.Text, X: w.X, Y: 1 - w.Y}
	}
	return out
}

// CleanJSONBlock removes markdown code fences around JSON.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := text[:idx]
		if !strings.ContainsAny(first, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// JSONRecognizer treats the "image" as a JSON word list. It lets the CLI
// and tests replay recognition output without a model.
type JSONRecognizer struct{}

func (JSONRecognizer) Recognize(ctx context.Context, data []byte) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeWords(data)
}
