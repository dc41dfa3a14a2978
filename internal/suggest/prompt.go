package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
)

const promptTemplate = `You are an assistant helping a reviewer extract the pros and cons from a product review.

Given the following review text, identify and list the pros and cons.

Review Text: %s

Format your response as a JSON object with "pros" and "cons" fields, each containing a list of strings.`

func buildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// parseSuggestions decodes a model answer, tolerating a markdown fence.
func parseSuggestions(raw string) (Suggestions, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var out Suggestions
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &out); err != nil {
		return Suggestions{}, fmt.Errorf("parse suggestions: %w", err)
	}
	return out, nil
}
