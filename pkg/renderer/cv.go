package renderer

import (
	"fmt"
	"strings"

	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/i18n"
	"golang.org/x/text/cases"
)

// Section headings in both languages.
//
//nolint:gochecknoglobals // static labels
var (
	headingSummary        = i18n.New("Summary", "Resumo")
	headingExperience     = i18n.New("Experience", "Experiência")
	headingProjects       = i18n.New("Projects", "Projetos")
	headingEducation      = i18n.New("Education", "Formação")
	headingCertifications = i18n.New("Certifications", "Certificações")
	headingSkills         = i18n.New("Skills", "Competências")
	labelTech             = i18n.New("Tech", "Tecnologias")
	labelCurrently        = i18n.New("Currently", "Atualmente")
	labelAvailable        = i18n.New("Available for work", "Disponível para trabalho")
)

// BuildCV renders the portfolio as a markdown CV in lang.
func BuildCV(data content.Data, lang i18n.Lang) (md string) {
	var b strings.Builder
	info := data.PersonalInfo

	// NoLower keeps names like "DeVries" intact
	fullName := cases.Title(lang.Tag(), cases.NoLower).String(strings.TrimSpace(info.Name + " " + info.LastName))
	fmt.Fprintf(&b, "# %s\n\n", fullName)

	if title := info.Title.Resolve(lang); title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", title)
	}

	contact := nonEmpty(info.Email, info.Location)
	if info.AvailableForWork {
		contact = append(contact, labelAvailable.Resolve(lang))
	}
	if len(contact) > 0 {
		fmt.Fprintf(&b, "%s\n\n", strings.Join(contact, " | "))
	}

	if len(data.Socials) > 0 {
		links := make([]string, 0, len(data.Socials))
		for _, social := range data.Socials {
			links = append(links, fmt.Sprintf("[%s](%s)", social.Name, social.URL))
		}
		fmt.Fprintf(&b, "%s\n\n", strings.Join(links, " | "))
	}

	summary := info.Description.Resolve(lang)
	role := info.CurrentRole.Resolve(lang)
	if summary != "" || role != "" {
		heading(&b, headingSummary, lang)
		if summary != "" {
			fmt.Fprintf(&b, "%s\n\n", summary)
		}
		if role != "" {
			current := strings.Join(nonEmpty(role, info.CurrentCompany, info.CurrentPeriod), ", ")
			fmt.Fprintf(&b, "*%s: %s*\n\n", labelCurrently.Resolve(lang), current)
		}
	}

	if len(data.Experiences) > 0 {
		heading(&b, headingExperience, lang)
		for _, exp := range data.Experiences {
			fmt.Fprintf(&b, "### %s, %s\n\n", exp.Role.Resolve(lang), exp.Company)
			if meta := nonEmpty(exp.Year, exp.Location); len(meta) > 0 {
				fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " | "))
			}
			if desc := exp.Description.Resolve(lang); desc != "" {
				fmt.Fprintf(&b, "%s\n\n", desc)
			}
			if len(exp.Tech) > 0 {
				fmt.Fprintf(&b, "%s: %s\n\n", labelTech.Resolve(lang), strings.Join(exp.Tech, ", "))
			}
		}
	}

	if len(data.Projects) > 0 {
		heading(&b, headingProjects, lang)
		for _, project := range data.Projects {
			title := project.Title.Resolve(lang)
			if project.URL != "" {
				title = fmt.Sprintf("[%s](%s)", title, project.URL)
			}
			fmt.Fprintf(&b, "### %s\n\n", title)
			if desc := project.Description.Resolve(lang); desc != "" {
				fmt.Fprintf(&b, "%s\n\n", desc)
			}
			if project.Highlight != nil {
				if highlight := project.Highlight.Resolve(lang); highlight != "" {
					fmt.Fprintf(&b, "> %s\n\n", highlight)
				}
			}
			if len(project.Skills) > 0 {
				fmt.Fprintf(&b, "%s: %s\n\n", labelTech.Resolve(lang), strings.Join(project.Skills, ", "))
			}
		}
	}

	if len(data.Education) > 0 {
		heading(&b, headingEducation, lang)
		for _, edu := range data.Education {
			line := strings.Join(nonEmpty(edu.Course.Resolve(lang), edu.Institution, edu.Year), ", ")
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(data.Certifications) > 0 {
		heading(&b, headingCertifications, lang)
		for _, cert := range data.Certifications {
			name := cert.Name
			if cert.URL != "" {
				name = fmt.Sprintf("[%s](%s)", cert.Name, cert.URL)
			}
			fmt.Fprintf(&b, "- %s\n", strings.Join(nonEmpty(name, cert.Issuer, cert.Year), ", "))
		}
		b.WriteString("\n")
	}

	if len(data.Skills) > 0 {
		heading(&b, headingSkills, lang)
		fmt.Fprintf(&b, "%s\n", strings.Join(data.Skills, ", "))
	}

	md = strings.TrimRight(b.String(), "\n") + "\n"
	return md
}

func heading(b *strings.Builder, text i18n.Text, lang i18n.Lang) {
	fmt.Fprintf(b, "## %s\n\n", text.Resolve(lang))
}

func nonEmpty(values ...string) (kept []string) {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return kept
}
