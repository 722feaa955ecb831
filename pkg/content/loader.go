package content

import (
	"encoding/json"
	"os"

	"github.com/nikogura/folio/pkg/i18n"
	"github.com/pkg/errors"
)

// Load reads the portfolio document from a JSON file.
func Load(path string) (data Data, err error) {
	// Read file
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read portfolio file: %s", path)
		return data, err
	}

	data, err = decode(fileData, path)
	return data, err
}

// Decode parses a portfolio document. Legacy plain strings are normalized to bilingual
// text and missing collections become empty.
func Decode(raw []byte) (data Data, err error) {
	data, err = decode(raw, "document")
	return data, err
}

func decode(raw []byte, source string) (data Data, err error) {
	err = json.Unmarshal(raw, &data)
	if err != nil {
		err = &ParseError{Source: source, Err: err}
		return data, err
	}

	data.Normalize()

	return data, err
}

// Encode serializes the document with two-space indentation.
func Encode(data Data) (raw []byte, err error) {
	raw, err = json.MarshalIndent(data, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to encode portfolio document")
		return raw, err
	}
	raw = append(raw, '\n')
	return raw, err
}

// Normalize initializes absent collections and cleans list fields.
func (d *Data) Normalize() {
	d.Skills = d.Skills.Clean()
	if d.Socials == nil {
		d.Socials = []Social{}
	}
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Articles == nil {
		d.Articles = []Article{}
	}

	for i := range d.Experiences {
		d.Experiences[i].Tech = d.Experiences[i].Tech.Clean()
	}
	for i := range d.Projects {
		d.Projects[i].Skills = d.Projects[i].Skills.Clean()
	}
	for i := range d.Articles {
		d.Articles[i].Tags = d.Articles[i].Tags.Clean()
	}
}

// Seed returns the initial document for a new portfolio.
func Seed(name string) (data Data) {
	data = Data{
		PersonalInfo: PersonalInfo{
			Name:        name,
			Title:       i18n.New("Developer", "Desenvolvedor"),
			Description: i18n.Text{},
			CurrentRole: i18n.Text{},
			PhotoURL:    PlaceholderPhoto,
		},
	}
	data.Normalize()
	return data
}
