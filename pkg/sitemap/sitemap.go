package sitemap

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type page struct {
	path     string
	freq     string
	priority float64
}

//nolint:gochecknoglobals // fixed site pages
var staticPages = []page{
	{path: "", freq: "weekly", priority: 1},
	{path: "/work", freq: "weekly", priority: 0.9},
	{path: "/info", freq: "monthly", priority: 0.8},
	{path: "/bio", freq: "monthly", priority: 0.6},
	{path: "/contact", freq: "monthly", priority: 0.7},
	{path: "/articles", freq: "weekly", priority: 0.8},
}

// Build renders the XML sitemap for the public pages of data.
func Build(data content.Data, baseURL string, now time.Time) (out []byte, err error) {
	base := strings.TrimSuffix(baseURL, "/")
	stamp := now.UTC().Format("2006-01-02")

	set := urlSet{Xmlns: xmlns}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, newEntry(base+p.path, stamp, p.freq, p.priority))
	}

	for _, project := range data.Projects {
		set.URLs = append(set.URLs, newEntry(base+"/work/"+project.ID, stamp, "monthly", 0.7))
	}

	for _, article := range data.Articles {
		if !article.Published || article.Slug.EN == "" {
			continue
		}
		lastMod := stamp
		if !article.UpdatedAt.IsZero() {
			lastMod = article.UpdatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, newEntry(base+"/articles/"+article.Slug.EN, lastMod, "monthly", 0.6))
	}

	var body []byte
	body, err = xml.MarshalIndent(set, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal sitemap")
		return out, err
	}

	out = append([]byte(xml.Header), body...)
	out = append(out, '\n')

	return out, err
}

func newEntry(loc, lastMod, freq string, priority float64) (e entry) {
	e = entry{
		Loc:        loc,
		LastMod:    lastMod,
		ChangeFreq: freq,
		Priority:   strconv.FormatFloat(priority, 'f', 1, 64),
	}
	return e
}
