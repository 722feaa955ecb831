package llm

import (
	"context"
	"strings"

	"github.com/nikogura/folio/pkg/content"
)

// Translator produces Portuguese versions of English texts.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (TranslationResponse, error)
}

// PendingItems lists the document texts still waiting for a Portuguese version.
func PendingItems(data *content.Data) (items []TranslationItem) {
	for _, field := range data.Untranslated() {
		items = append(items, TranslationItem{Path: field.Path, English: field.Text.EN})
	}
	return items
}

// TranslateDocument fills the Portuguese side of every untranslated field in data.
// It returns the paths it changed. data is left untouched when translation fails.
func TranslateDocument(ctx context.Context, translator Translator, data *content.Data) (changed []string, err error) {
	items := PendingItems(data)
	if len(items) == 0 {
		return changed, err
	}

	var response TranslationResponse
	response, err = translator.Translate(ctx, TranslationRequest{
		Items:   items,
		Context: ownerContext(data.PersonalInfo),
	})
	if err != nil {
		return changed, err
	}

	for _, field := range data.Untranslated() {
		text, ok := response.Translations[field.Path]
		if !ok {
			continue
		}
		field.Text.PT = strings.TrimSpace(text)
		changed = append(changed, field.Path)
	}

	return changed, err
}

func ownerContext(info content.PersonalInfo) (summary string) {
	parts := []string{strings.TrimSpace(info.Name + " " + info.LastName)}
	if info.Title.EN != "" {
		parts = append(parts, info.Title.EN)
	}
	if info.Location != "" {
		parts = append(parts, info.Location)
	}
	summary = strings.Join(parts, ", ")
	return summary
}
