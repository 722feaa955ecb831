package llm

import (
	"encoding/json"
	"fmt"
)

const translationSystem = `You translate a software professional's portfolio from English to Brazilian Portuguese.`

// buildTranslationPrompt creates the prompt for one batch of texts.
func buildTranslationPrompt(req TranslationRequest) (prompt string) {
	itemsJSON, _ := json.MarshalIndent(req.Items, "", "  ")

	owner := req.Context
	if owner == "" {
		owner = "not provided"
	}

	prompt = fmt.Sprintf(`Translate each item's "en" text into Brazilian Portuguese.

PORTFOLIO OWNER:
%s

ITEMS:
%s

Rules:
- Keep HTML tags, markdown, URLs and code exactly as they are; translate only human-readable text
- Keep product names, company names and technology names in their original form
- Keep the register professional and concise, matching the length of the source
- Do not add explanations, notes or quotation marks around the translation
- Return one translation for every path, using the path string exactly as given

Return ONLY valid JSON in this exact format (no markdown, no commentary):
{
  "translations": {
    "path-from-item": "tradução em português"
  }
}`, owner, string(itemsJSON))

	return prompt
}
