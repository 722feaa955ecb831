package content

import (
	"fmt"

	"github.com/nikogura/folio/pkg/i18n"
)

// Field is a localized value inside the document, addressed by a dotted path.
type Field struct {
	Path string
	Text *i18n.Text
}

// LocalizedFields lists every localized value in the document in a stable order.
// The pointers alias the document, so edits through them change d.
func (d *Data) LocalizedFields() (fields []Field) {
	add := func(path string, text *i18n.Text) {
		fields = append(fields, Field{Path: path, Text: text})
	}

	add("personalInfo.title", &d.PersonalInfo.Title)
	add("personalInfo.description", &d.PersonalInfo.Description)
	add("personalInfo.currentRole", &d.PersonalInfo.CurrentRole)

	for i := range d.Experiences {
		add(fmt.Sprintf("experiences[%d].role", i), &d.Experiences[i].Role)
		add(fmt.Sprintf("experiences[%d].description", i), &d.Experiences[i].Description)
	}
	for i := range d.Education {
		add(fmt.Sprintf("education[%d].course", i), &d.Education[i].Course)
	}
	for i := range d.Projects {
		add(fmt.Sprintf("projects[%d].title", i), &d.Projects[i].Title)
		add(fmt.Sprintf("projects[%d].description", i), &d.Projects[i].Description)
		if d.Projects[i].Highlight != nil {
			add(fmt.Sprintf("projects[%d].highlight", i), d.Projects[i].Highlight)
		}
	}
	for i := range d.Articles {
		add(fmt.Sprintf("articles[%d].title", i), &d.Articles[i].Title)
		add(fmt.Sprintf("articles[%d].excerpt", i), &d.Articles[i].Excerpt)
		add(fmt.Sprintf("articles[%d].content", i), &d.Articles[i].Content)
	}

	return fields
}

// Untranslated returns the fields whose Portuguese value is missing or copied from English.
func (d *Data) Untranslated() (pending []Field) {
	for _, field := range d.LocalizedFields() {
		if field.Text.Untranslated() {
			pending = append(pending, field)
		}
	}
	return pending
}
