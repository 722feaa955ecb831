package content

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/nikogura/folio/pkg/i18n"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// WordsPerMinute is the reading speed used for read time estimates.
const WordsPerMinute = 200

// Slugify turns a title into a URL-safe lowercase slug without diacritics.
func Slugify(text string) (slug string) {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripper, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	// Replace everything outside [a-z0-9] with hyphens
	slug = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, folded)

	// Remove consecutive hyphens
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	slug = strings.Trim(slug, "-")

	return slug
}

// ReadTime estimates reading minutes from the English content, never less than one.
func ReadTime(body i18n.Text) (minutes int) {
	words := len(strings.Fields(body.EN))
	minutes = (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// NextID returns one more than the largest integer id. Non-numeric ids are ignored.
func NextID(ids []string) (next string) {
	maxID := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	next = strconv.Itoa(maxID + 1)
	return next
}

// FillSlugs derives each missing slug language from the title in that language.
func (a *Article) FillSlugs() {
	for _, lang := range i18n.Langs {
		if a.Slug.Get(lang) != "" {
			continue
		}
		a.Slug.Set(lang, Slugify(a.Title.Get(lang)))
	}
}

// Stamp applies the derived article fields for a write at now.
// PublishedAt is only set when absent.
func (a *Article) Stamp(now time.Time) {
	if a.PublishedAt.IsZero() {
		a.PublishedAt = At(now)
	} else {
		a.PublishedAt = At(a.PublishedAt.Time)
	}
	a.UpdatedAt = At(now)
	a.ReadTime = ReadTime(a.Content)
	a.Tags = a.Tags.Clean()
}
