package content

import (
	"strings"
)

// Validate checks an experience before it is written.
func (e *Experience) Validate() (err error) {
	var problems []FieldError
	if strings.TrimSpace(e.Company) == "" {
		problems = append(problems, FieldError{Field: "company", Message: "is required"})
	}
	if strings.TrimSpace(e.Role.EN) == "" {
		problems = append(problems, FieldError{Field: "role.en", Message: "is required"})
	}
	err = asValidationError(problems)
	return err
}

// Validate checks a project before it is written.
func (p *Project) Validate() (err error) {
	var problems []FieldError
	if strings.TrimSpace(p.Title.EN) == "" {
		problems = append(problems, FieldError{Field: "title.en", Message: "is required"})
	}
	err = asValidationError(problems)
	return err
}

// Validate checks an article before it is written.
func (a *Article) Validate() (err error) {
	var problems []FieldError
	if strings.TrimSpace(a.Title.EN) == "" {
		problems = append(problems, FieldError{Field: "title.en", Message: "is required"})
	}
	for _, slug := range []string{a.Slug.EN, a.Slug.PT} {
		if slug != "" && slug != Slugify(slug) {
			problems = append(problems, FieldError{Field: "slug", Message: "must be lowercase letters, digits and hyphens: " + slug})
		}
	}
	err = asValidationError(problems)
	return err
}

func asValidationError(problems []FieldError) (err error) {
	if len(problems) == 0 {
		return err
	}
	err = &ValidationError{Errors: problems}
	return err
}
