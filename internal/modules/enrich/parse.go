package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrGenerationParse marks model output that could not be read as the
// requested JSON array.
var ErrGenerationParse = errors.New("model output is not a JSON array")

// extractJSONArray slices the model output from the first '[' to the last
// ']'. Models routinely wrap the array in prose or code fences; everything
// outside the brackets is discarded.
func extractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", ErrGenerationParse
	}
	return text[start : end+1], nil
}

// decodeArray extracts and unmarshals a JSON array of T from raw model
// output.
func decodeArray[T any](text string) ([]T, error) {
	raw, err := extractJSONArray(text)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationParse, err)
	}
	if len(items) == 0 {
		return nil, ErrGenerationParse
	}
	return items, nil
}
