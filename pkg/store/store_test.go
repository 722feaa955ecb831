package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/i18n"
)

// clock returns a controllable time source starting at start.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T, data content.Data) (*Store, *FileBackend, *clock) {
	t.Helper()

	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "data", "portfolio.json"))
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	clk := &clock{now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}
	s := New(backend, WithClock(clk.Now))

	err = s.Replace(context.Background(), data)
	if err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	return s, backend, clk
}

func experience(id, company string) content.Experience {
	return content.Experience{
		ID:          id,
		Year:        "2020",
		Role:        i18n.New("Developer", "Desenvolvedor"),
		Company:     company,
		Description: i18n.New("Work"),
		Tech:        content.List{"Go"},
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestLoadMissingDocument(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	_, err = New(backend).Load(context.Background())
	if err == nil {
		t.Fatal("Expected error loading missing document, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	err := os.WriteFile(path, []byte("{broken"), 0600)
	if err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	backend, _ := NewFileBackend(path)
	_, err = New(backend).Load(context.Background())

	var parseErr *content.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected ParseError, got %v", err)
	}
}

func TestCreateExperienceAssignsNextID(t *testing.T) {
	seed := content.Seed("Test")
	seed.Experiences = []content.Experience{experience("7", "Old Co"), experience("3", "Older Co")}
	s, _, _ := newTestStore(t, seed)
	ctx := context.Background()

	created, err := s.Experiences().Create(ctx, experience("", "New Co"))
	if err != nil {
		t.Fatalf("Failed to create experience: %v", err)
	}

	if created.ID != "8" {
		t.Errorf("Expected id '8', got '%s'", created.ID)
	}

	list, err := s.Experiences().List(ctx)
	if err != nil {
		t.Fatalf("Failed to list experiences: %v", err)
	}

	if len(list) != 3 || list[0].ID != "8" {
		t.Errorf("Expected new experience first, got %+v", list)
	}
}

func TestCreateInitializesMissingCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	err := os.WriteFile(path, []byte(`{"personalInfo": {"name": "Legacy"}}`), 0600)
	if err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	backend, _ := NewFileBackend(path)
	s := New(backend)

	created, err := s.Articles().Create(context.Background(), content.Article{Title: i18n.New("First")})
	if err != nil {
		t.Fatalf("Failed to create article in missing collection: %v", err)
	}

	if created.ID != "1" {
		t.Errorf("Expected id '1', got '%s'", created.ID)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	s, backend, _ := newTestStore(t, content.Seed("Test"))
	before, _ := os.ReadFile(backend.Path())

	_, err := s.Projects().Create(context.Background(), content.Project{})
	if !errors.Is(err, content.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	_, err = s.Articles().Create(context.Background(), content.Article{
		Title:   i18n.New("!!!"),
		Content: i18n.New(words(10)),
	})
	var validation *content.ValidationError
	if !errors.As(err, &validation) || validation.Errors[0].Field != "slug" {
		t.Fatalf("Expected slug validation error for unsluggable title, got %v", err)
	}

	after, _ := os.ReadFile(backend.Path())
	if string(before) != string(after) {
		t.Error("Expected document unchanged after rejected write")
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	seed := content.Seed("Test")
	seed.Experiences = []content.Experience{experience("2", "A"), experience("1", "B")}
	s, _, _ := newTestStore(t, seed)
	ctx := context.Background()

	changed := experience("1", "B Renamed")
	changed.Tech = content.List{" Go ", "", "Rust"}

	updated, err := s.Experiences().Update(ctx, changed)
	if err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	if len(updated.Tech) != 2 {
		t.Errorf("Expected tech cleaned, got %v", updated.Tech)
	}

	list, _ := s.Experiences().List(ctx)
	if list[1].ID != "1" || list[1].Company != "B Renamed" {
		t.Errorf("Expected position preserved and record replaced, got %+v", list)
	}
}

func TestUpdateMissingProjectLeavesDocument(t *testing.T) {
	seed := content.Seed("Test")
	seed.Projects = []content.Project{{ID: "1", Title: i18n.New("Site")}}
	s, backend, _ := newTestStore(t, seed)
	before, _ := os.ReadFile(backend.Path())

	_, err := s.Projects().Update(context.Background(), content.Project{ID: "99", Title: i18n.New("Ghost")})
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}

	after, _ := os.ReadFile(backend.Path())
	if string(before) != string(after) {
		t.Error("Expected document on disk unchanged")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	seed := content.Seed("Test")
	seed.Experiences = []content.Experience{experience("3", "A"), experience("2", "B"), experience("1", "C")}
	s, _, _ := newTestStore(t, seed)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := s.Experiences().Delete(ctx, "3")
		if err != nil {
			t.Fatalf("Delete #%d failed: %v", i+1, err)
		}
	}

	list, _ := s.Experiences().List(ctx)
	if len(list) != 2 {
		t.Errorf("Expected 2 experiences after deleting one, got %d", len(list))
	}

	err := s.Experiences().Delete(ctx, "")
	if !errors.Is(err, content.ErrValidation) {
		t.Errorf("Expected validation error for empty id, got %v", err)
	}
}

func TestCreateArticleDerivesFields(t *testing.T) {
	s, _, clk := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	created, err := s.Articles().Create(ctx, content.Article{
		Title:     i18n.New("My Post", "Meu Post"),
		Content:   i18n.New(words(210), words(5)),
		Published: true,
	})
	if err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	if created.Slug.EN != "my-post" || created.Slug.PT != "meu-post" {
		t.Errorf("Expected derived slugs, got %+v", created.Slug)
	}
	if created.ReadTime != 2 {
		t.Errorf("Expected read time 2, got %d", created.ReadTime)
	}
	if !created.PublishedAt.Equal(clk.Now()) || !created.UpdatedAt.Equal(clk.Now()) {
		t.Errorf("Expected timestamps at %v, got %v / %v", clk.Now(), created.PublishedAt, created.UpdatedAt)
	}
	if !created.Published {
		t.Error("Expected published flag kept as submitted")
	}

	// Round trip: the stored record carries exactly what Create returned.
	stored, err := s.Articles().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if stored.Slug != created.Slug || stored.ReadTime != created.ReadTime || !stored.UpdatedAt.Equal(created.UpdatedAt.Time) {
		t.Errorf("Expected stored article to match created, got %+v", stored)
	}
}

func TestUpdateArticleIsIdempotent(t *testing.T) {
	s, _, clk := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	created, err := s.Articles().Create(ctx, content.Article{Title: i18n.New("Post"), Content: i18n.New(words(10))})
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}

	clk.Advance(time.Hour)
	edit := created
	edit.PublishedAt = content.Timestamp{}
	edit.Content = i18n.New(words(450))

	first, err := s.Articles().Update(ctx, edit)
	if err != nil {
		t.Fatalf("First update failed: %v", err)
	}

	clk.Advance(time.Minute)
	second, err := s.Articles().Update(ctx, edit)
	if err != nil {
		t.Fatalf("Second update failed: %v", err)
	}

	if !first.PublishedAt.Equal(created.PublishedAt.Time) {
		t.Errorf("Expected publishedAt preserved, got %v", first.PublishedAt)
	}
	if first.ReadTime != 3 || second.ReadTime != 3 {
		t.Errorf("Expected recomputed read time 3, got %d / %d", first.ReadTime, second.ReadTime)
	}
	if second.UpdatedAt.Before(first.UpdatedAt.Time) {
		t.Error("Expected updatedAt non-decreasing")
	}
	if second.Slug != first.Slug || second.Title != first.Title {
		t.Error("Expected other fields unchanged between identical updates")
	}
}

func TestFindBySlugIsLanguageAgnostic(t *testing.T) {
	s, _, _ := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	created, err := s.Articles().Create(ctx, content.Article{
		Title: i18n.New("Test", "Teste"),
		Slug:  i18n.New("test", "teste"),
	})
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}

	for _, slug := range []string{"test", "teste"} {
		found, findErr := s.Articles().FindBySlug(ctx, slug)
		if findErr != nil {
			t.Fatalf("FindBySlug(%q) failed: %v", slug, findErr)
		}
		if found.ID != created.ID {
			t.Errorf("FindBySlug(%q) returned article %s, want %s", slug, found.ID, created.ID)
		}
	}

	_, err = s.Articles().FindBySlug(ctx, "missing")
	if !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestSlugCollisionRejected(t *testing.T) {
	s, _, _ := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	first, err := s.Articles().Create(ctx, content.Article{Title: i18n.New("Same", "Igual")})
	if err != nil {
		t.Fatalf("Failed to create first article: %v", err)
	}

	_, err = s.Articles().Create(ctx, content.Article{Title: i18n.New("Other", "Same")})
	if !errors.Is(err, content.ErrConflict) {
		t.Errorf("Expected conflict when PT slug matches another article's EN slug, got %v", err)
	}

	// Updating an article with its own slugs is not a collision.
	_, err = s.Articles().Update(ctx, first)
	if err != nil {
		t.Errorf("Expected self update to succeed, got %v", err)
	}
}

func TestPersonalReplace(t *testing.T) {
	s, _, _ := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	info := content.PersonalInfo{Name: "Ana", Title: i18n.New("Dev", "Dev"), AvailableForWork: true}
	saved, err := s.Personal().Replace(ctx, info)
	if err != nil {
		t.Fatalf("Failed to replace personal info: %v", err)
	}

	if saved.PhotoURL != content.PlaceholderPhoto {
		t.Errorf("Expected placeholder photo, got %q", saved.PhotoURL)
	}

	got, err := s.Personal().Get(ctx)
	if err != nil {
		t.Fatalf("Failed to get personal info: %v", err)
	}
	if got.Name != "Ana" || got.LastName != "" || !got.AvailableForWork {
		t.Errorf("Expected wholesale replace, got %+v", got)
	}
}

func TestInit(t *testing.T) {
	backend, _ := NewFileBackend(filepath.Join(t.TempDir(), "portfolio.json"))
	s := New(backend)
	ctx := context.Background()

	created, err := s.Init(ctx, content.Seed("First"), false)
	if err != nil || !created {
		t.Fatalf("Expected seed written, got created=%v err=%v", created, err)
	}

	created, err = s.Init(ctx, content.Seed("Second"), false)
	if err != nil || created {
		t.Fatalf("Expected existing document kept, got created=%v err=%v", created, err)
	}

	info, _ := s.Personal().Get(ctx)
	if info.Name != "First" {
		t.Errorf("Expected original seed kept, got %q", info.Name)
	}

	_, err = s.Init(ctx, content.Seed("Forced"), true)
	if err != nil {
		t.Fatalf("Forced init failed: %v", err)
	}
	info, _ = s.Personal().Get(ctx)
	if info.Name != "Forced" {
		t.Errorf("Expected forced seed, got %q", info.Name)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s, _, _ := newTestStore(t, content.Seed("Test"))
	ctx := context.Background()

	const writers = 8
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := s.Experiences().Create(ctx, experience("", "Concurrent"))
			errs <- err
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Concurrent create failed: %v", err)
		}
	}

	list, _ := s.Experiences().List(ctx)
	seen := map[string]bool{}
	for _, exp := range list {
		if seen[exp.ID] {
			t.Errorf("Duplicate id %s", exp.ID)
		}
		seen[exp.ID] = true
	}
	if len(list) != writers {
		t.Errorf("Expected %d experiences, got %d", writers, len(list))
	}
}

func TestArticleTimestampsRoundTrip(t *testing.T) {
	s, _, clk := newTestStore(t, content.Seed("Test"))
	clk.now = time.Date(2025, 10, 15, 12, 0, 0, 123456789, time.UTC)
	ctx := context.Background()

	created, err := s.Articles().Create(ctx, content.Article{
		Title:   i18n.New("Precise", "Preciso"),
		Content: i18n.New(words(10)),
	})
	if err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	loaded, err := s.Articles().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to reload article: %v", err)
	}

	if !created.UpdatedAt.Equal(loaded.UpdatedAt.Time) || !created.PublishedAt.Equal(loaded.PublishedAt.Time) {
		t.Errorf("Expected stored timestamps to match the written ones: created %s/%s, loaded %s/%s",
			created.PublishedAt, created.UpdatedAt, loaded.PublishedAt, loaded.UpdatedAt)
	}

	want := time.Date(2025, 10, 15, 12, 0, 0, 123000000, time.UTC)
	if !created.UpdatedAt.Equal(want) {
		t.Errorf("Expected millisecond precision %s, got %s", want, created.UpdatedAt)
	}

	clk.now = clk.now.Add(time.Second + 987654*time.Nanosecond)
	created.PublishedAt = content.At(created.PublishedAt.Add(456 * time.Microsecond))
	updated, err := s.Articles().Update(ctx, created)
	if err != nil {
		t.Fatalf("Failed to update article: %v", err)
	}

	loaded, err = s.Articles().Get(ctx, updated.ID)
	if err != nil {
		t.Fatalf("Failed to reload article: %v", err)
	}
	if !updated.UpdatedAt.Equal(loaded.UpdatedAt.Time) || !updated.PublishedAt.Equal(loaded.PublishedAt.Time) {
		t.Errorf("Expected update to round-trip: updated %s/%s, loaded %s/%s",
			updated.PublishedAt, updated.UpdatedAt, loaded.PublishedAt, loaded.UpdatedAt)
	}
}
