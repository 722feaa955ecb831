package store

import (
	"context"
	"time"

	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

// Experiences returns the work history collection.
func (s *Store) Experiences() (c *Collection[content.Experience]) {
	c = &Collection[content.Experience]{
		store: s,
		kind:  "experience",
		items: func(data *content.Data) *[]content.Experience { return &data.Experiences },
		id:    func(item *content.Experience) *string { return &item.ID },
		prepare: func(_ *content.Data, item *content.Experience, _ *content.Experience, _ time.Time) (err error) {
			err = item.Validate()
			if err != nil {
				return err
			}
			item.Tech = item.Tech.Clean()
			return err
		},
	}
	return c
}

// Projects returns the project collection.
func (s *Store) Projects() (c *Collection[content.Project]) {
	c = &Collection[content.Project]{
		store: s,
		kind:  "project",
		items: func(data *content.Data) *[]content.Project { return &data.Projects },
		id:    func(item *content.Project) *string { return &item.ID },
		prepare: func(_ *content.Data, item *content.Project, _ *content.Project, _ time.Time) (err error) {
			err = item.Validate()
			if err != nil {
				return err
			}
			item.Skills = item.Skills.Clean()
			return err
		},
	}
	return c
}

// ArticleStore adds slug lookup to the article collection.
type ArticleStore struct {
	*Collection[content.Article]
}

// Articles returns the article collection.
func (s *Store) Articles() (a *ArticleStore) {
	a = &ArticleStore{
		Collection: &Collection[content.Article]{
			store:   s,
			kind:    "article",
			items:   func(data *content.Data) *[]content.Article { return &data.Articles },
			id:      func(item *content.Article) *string { return &item.ID },
			prepare: prepareArticle,
		},
	}
	return a
}

// FindBySlug returns the first article whose English or Portuguese slug equals slug.
func (a *ArticleStore) FindBySlug(ctx context.Context, slug string) (article content.Article, err error) {
	var articles []content.Article
	articles, err = a.List(ctx)
	if err != nil {
		return article, err
	}

	for _, candidate := range articles {
		if candidate.HasSlug(slug) {
			article = candidate
			return article, err
		}
	}

	err = errors.Wrapf(content.ErrNotFound, "article with slug %q", slug)
	return article, err
}

func prepareArticle(data *content.Data, item *content.Article, previous *content.Article, now time.Time) (err error) {
	err = item.Validate()
	if err != nil {
		return err
	}

	item.FillSlugs()
	if item.Slug.EN == "" {
		err = content.NewValidationError("slug", "cannot be derived from the title; set one explicitly")
		return err
	}

	if previous != nil && item.PublishedAt.IsZero() {
		item.PublishedAt = previous.PublishedAt
	}
	item.Stamp(now)

	err = checkSlugConflict(data.Articles, *item)
	return err
}

// checkSlugConflict rejects slugs already used by a different article in either language.
func checkSlugConflict(articles []content.Article, item content.Article) (err error) {
	for _, other := range articles {
		if other.ID == item.ID {
			continue
		}
		for _, slug := range []string{item.Slug.EN, item.Slug.PT} {
			if other.HasSlug(slug) {
				err = errors.Wrapf(content.ErrConflict, "slug %q already used by article %s", slug, other.ID)
				return err
			}
		}
	}
	return err
}

// PersonalStore reads and replaces the singleton personal info.
type PersonalStore struct {
	store *Store
}

// Personal returns the personal info accessor.
func (s *Store) Personal() (p *PersonalStore) {
	p = &PersonalStore{store: s}
	return p
}

// Get returns the stored personal info.
func (p *PersonalStore) Get(ctx context.Context) (info content.PersonalInfo, err error) {
	var data content.Data
	data, err = p.store.Load(ctx)
	if err != nil {
		return info, err
	}
	info = data.PersonalInfo
	return info, err
}

// Replace overwrites the personal info wholesale. Only an empty photo is defaulted.
func (p *PersonalStore) Replace(ctx context.Context, info content.PersonalInfo) (saved content.PersonalInfo, err error) {
	if info.PhotoURL == "" {
		info.PhotoURL = content.PlaceholderPhoto
	}

	err = p.store.mutate(ctx, func(data *content.Data, _ time.Time) (mutateErr error) {
		data.PersonalInfo = info
		return mutateErr
	})
	if err != nil {
		err = errors.Wrap(err, "failed to replace personal info")
		return saved, err
	}

	saved = info
	return saved, err
}
