package content

import (
	"github.com/nikogura/folio/pkg/i18n"
)

// PlaceholderPhoto is used when no profile photo was uploaded.
const PlaceholderPhoto = "/placeholder-user.jpg"

// Data represents the complete portfolio document.
type Data struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Skills         List            `json:"skills"`
	Socials        []Social        `json:"socials"`
	Experiences    []Experience    `json:"experiences"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Articles       []Article       `json:"articles"`
}

// PersonalInfo is the singleton owner profile.
type PersonalInfo struct {
	Name             string    `json:"name"`
	LastName         string    `json:"lastName"`
	Title            i18n.Text `json:"title"`
	Description      i18n.Text `json:"description"`
	Email            string    `json:"email"`
	Location         string    `json:"location"`
	AvailableForWork bool      `json:"availableForWork"`
	CurrentRole      i18n.Text `json:"currentRole"`
	CurrentCompany   string    `json:"currentCompany"`
	CurrentPeriod    string    `json:"currentPeriod"`
	PhotoURL         string    `json:"photoUrl,omitempty"`
}

// Photo returns the profile photo path or the placeholder.
func (p PersonalInfo) Photo() (url string) {
	url = p.PhotoURL
	if url == "" {
		url = PlaceholderPhoto
	}
	return url
}

// Social is a link to an external profile.
type Social struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

// Experience is one position in the work history.
type Experience struct {
	ID          string    `json:"id"`
	Year        string    `json:"year"`
	Role        i18n.Text `json:"role"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description i18n.Text `json:"description"`
	Tech        List      `json:"tech"`
}

// Education is a course or degree.
type Education struct {
	ID          string    `json:"id"`
	Year        string    `json:"year"`
	Institution string    `json:"institution"`
	Course      i18n.Text `json:"course"`
}

// Certification is an earned certificate.
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	URL    string `json:"url,omitempty"`
}

// Project is a portfolio work item. Featured only affects layout.
type Project struct {
	ID          string     `json:"id"`
	Title       i18n.Text  `json:"title"`
	Image       string     `json:"image"`
	URL         string     `json:"url"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Featured    bool       `json:"featured"`
	Description i18n.Text  `json:"description"`
	Skills      List       `json:"skills"`
	Highlight   *i18n.Text `json:"highlight,omitempty"`
}

// Article is a blog post. Content holds rich HTML.
type Article struct {
	ID          string    `json:"id"`
	Title       i18n.Text `json:"title"`
	Slug        i18n.Text `json:"slug"`
	Excerpt     i18n.Text `json:"excerpt"`
	Content     i18n.Text `json:"content"`
	CoverImage  string    `json:"coverImage"`
	Category    string    `json:"category"`
	Tags        List      `json:"tags"`
	PublishedAt Timestamp `json:"publishedAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
	Published   bool      `json:"published"`
	ReadTime    int       `json:"readTime"`
}

// HasSlug reports whether slug matches the article in either language.
func (a Article) HasSlug(slug string) (match bool) {
	if slug == "" {
		return match
	}
	match = a.Slug.EN == slug || a.Slug.PT == slug
	return match
}
