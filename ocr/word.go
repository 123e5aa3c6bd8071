/*
Package ocr turns a schedule photo into positioned text and reconstructs
the text lines the schedule extractor reads.

PURPOSE:
  Recognition is an external collaborator behind the Recognizer interface.
  Whatever produces the words, this package owns the coordinate convention
  and the greedy line grouping built on it.

COORDINATE CONVENTION:
  X and Y are normalized to [0,1] and describe the center of a word's
  bounding box. The origin is the bottom-left corner of the image and Y
  grows upward, so the top of the schedule has the largest Y. Recognizers
  whose source uses a top-left origin must flip Y before returning.

KEY CONCEPTS:
  - Word: One recognized fragment with its position
  - Line: Words whose Y values fall within a threshold of each other
  - Recognizer: image bytes in, words out

SEE ALSO:
  - lines.go: Line reconstruction
  - gemini.go: Multimodal model recognizer
  - json.go: Word lists from JSON (offline use, tests)
  - schedule: Consumes lines and full text
*/
package ocr

import "fmt"

// Word is a recognized text fragment positioned in normalized coordinates.
type Word struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (w Word) String() string {
	return fmt.Sprintf("%q@(%.3f,%.3f)", w.Text, w.X, w.Y)
}
