package ocr

import (
	"context"
)

// Recognizer extracts positioned words from an image.
//
// Implementations return words in the bottom-left origin convention. An
// empty result is not an error here; callers decide whether it is fatal.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]Word, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, image []byte) ([]Word, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) ([]Word, error) {
	return f(ctx, image)
}

// Static returns the same words for every image.
type Static []Word

func (s Static) Recognize(ctx context.Context, _ []byte) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Word, len(s))
	copy(out, s)
	return out, nil
}
