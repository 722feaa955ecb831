package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultMaxBytes is the largest accepted image.
const DefaultMaxBytes = 5 * 1024 * 1024

// Rejection messages returned to clients.
const (
	MsgNoFile      = "No file provided"
	MsgInvalidType = "Invalid file type. Use JPG, PNG, WEBP or GIF"
	MsgTooLarge    = "File too large. Maximum 5MB"
)

// allowedTypes maps accepted declared content types to a fallback extension.
//
//nolint:gochecknoglobals // lookup table
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// RejectedError is returned for uploads that fail validation.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// Saver writes uploaded images into a public directory.
type Saver struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

// NewSaver creates a Saver storing files in dir and serving them under urlPrefix.
func NewSaver(dir, urlPrefix string, maxBytes int64) (s *Saver) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}

	s = &Saver{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}
	return s
}

// Dir returns the directory files are written to.
func (s *Saver) Dir() (dir string) {
	dir = s.dir
	return dir
}

// URLPrefix returns the public path files are served under.
func (s *Saver) URLPrefix() (prefix string) {
	prefix = s.urlPrefix
	return prefix
}

// MaxBytes returns the size limit.
func (s *Saver) MaxBytes() (limit int64) {
	limit = s.maxBytes
	return limit
}

// Save validates and stores the uploaded file, returning its public URL.
func (s *Saver) Save(header *multipart.FileHeader) (url string, err error) {
	if header == nil {
		err = &RejectedError{Message: MsgNoFile}
		return url, err
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	fallback, ok := allowedTypes[contentType]
	if !ok {
		err = &RejectedError{Message: MsgInvalidType}
		return url, err
	}

	if header.Size > s.maxBytes {
		err = &RejectedError{Message: MsgTooLarge}
		return url, err
	}

	name := s.filename(header.Filename, fallback)

	err = os.MkdirAll(s.dir, 0755)
	if err != nil {
		err = errors.Wrapf(err, "failed to create upload directory %s", s.dir)
		return url, err
	}

	var src multipart.File
	src, err = header.Open()
	if err != nil {
		err = errors.Wrap(err, "failed to open upload")
		return url, err
	}
	defer src.Close()

	var dst *os.File
	dst, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		err = errors.Wrap(err, "failed to create upload file")
		return url, err
	}

	// Guard against a declared size smaller than the body.
	var written int64
	written, err = io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = &RejectedError{Message: MsgTooLarge}
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		var rejected *RejectedError
		if !errors.As(err, &rejected) {
			err = errors.Wrap(err, "failed to write upload")
		}
		return url, err
	}

	url = path.Join(s.urlPrefix, name)
	return url, err
}

// filename builds a unique stored name keeping the original extension when it is safe.
func (s *Saver) filename(original, fallback string) (name string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(original)), "."))
	if ext == "" || strings.IndexFunc(ext, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	}) >= 0 {
		ext = fallback
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name = fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), suffix, ext)
	return name
}
