package api

import (
	"context"
	"net/http"

	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/sitemap"
	"github.com/nikogura/folio/pkg/upload"
	"github.com/pkg/errors"
)

// crud is the collection surface exposed over HTTP.
type crud[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// noun names a collection in client-facing messages.
type noun struct {
	singular string
	plural   string
	title    string
}

// registerCollection mounts list, create, update and delete for one collection at path.
func registerCollection[T any](s *Server, mux *http.ServeMux, path string, c crud[T], n noun) {
	mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		items, err := c.List(r.Context())
		if err != nil {
			s.handleError(w, r, err, failure{internal: "Failed to fetch " + n.plural})
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	})

	mux.Handle("POST "+path, s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		var item T
		if !decodeJSON(w, r, &item) {
			return
		}
		created, err := c.Create(r.Context(), item)
		if err != nil {
			s.handleError(w, r, err, failure{internal: "Failed to create " + n.singular})
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}))

	mux.Handle("PUT "+path, s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		var item T
		if !decodeJSON(w, r, &item) {
			return
		}
		updated, err := c.Update(r.Context(), item)
		if err != nil {
			s.handleError(w, r, err, failure{notFound: n.title + " not found", internal: "Failed to update " + n.singular})
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}))

	mux.Handle("DELETE "+path, s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "ID is required")
			return
		}
		err := c.Delete(r.Context(), id)
		if err != nil {
			s.handleError(w, r, err, failure{internal: "Failed to delete " + n.singular})
			return
		}
		writeSuccess(w)
	}))
}

func (s *Server) getPortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Load(r.Context())
	if err != nil {
		s.handleError(w, r, err, failure{internal: "Failed to fetch data"})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) getPersonal(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.Personal().Get(r.Context())
	if err != nil {
		s.handleError(w, r, err, failure{internal: "Failed to fetch personal info"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) putPersonal(w http.ResponseWriter, r *http.Request) {
	var info content.PersonalInfo
	if !decodeJSON(w, r, &info) {
		return
	}
	saved, err := s.store.Personal().Replace(r.Context(), info)
	if err != nil {
		s.handleError(w, r, err, failure{internal: "Failed to update personal info"})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.Projects().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, err, failure{notFound: "Project not found", internal: "Failed to fetch project"})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) getArticleBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.Articles().FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.handleError(w, r, err, failure{notFound: "Article not found", internal: "Failed to fetch article"})
		return
	}
	writeJSON(w, http.StatusOK, article)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.gate.Login(req.Password)
	if err != nil {
		if errors.Is(err, content.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		s.handleError(w, r, err, failure{internal: "Failed to login"})
		return
	}

	http.SetCookie(w, s.gate.Cookie(token))
	writeSuccess(w)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, s.gate.ClearCookie())
	writeSuccess(w)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": s.gate.Authorized(r)})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	limit := s.uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	err := r.ParseMultipartForm(8 << 20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, upload.MsgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, upload.MsgNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, upload.MsgNoFile)
		return
	}

	url, err := s.uploads.Save(header)
	if err != nil {
		var rejected *upload.RejectedError
		if errors.As(err, &rejected) {
			writeError(w, http.StatusBadRequest, rejected.Message)
			return
		}
		s.handleError(w, r, err, failure{internal: "Failed to upload file"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) sitemap(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Load(r.Context())
	if err != nil {
		s.handleError(w, r, err, failure{internal: "Failed to build sitemap"})
		return
	}

	body, err := sitemap.Build(data, s.baseURL, s.now())
	if err != nil {
		s.handleError(w, r, err, failure{internal: "Failed to build sitemap"})
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.Load(r.Context())
	if err != nil {
		s.log.WarnContext(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "down"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
