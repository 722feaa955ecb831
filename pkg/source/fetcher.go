package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 30 * time.Second

// maxRemoteBytes caps a downloaded document.
const maxRemoteBytes = 32 << 20

// Fetch reads a portfolio document from a local path or an http(s) URL.
func Fetch(ctx context.Context, input string) (body []byte, err error) {
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		body, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch document from URL: %s", input)
			return body, err
		}
		return body, err
	}

	body, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch document from file: %s", input)
		return body, err
	}

	return body, err
}

func fetchFromFile(path string) (body []byte, err error) {
	body, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return body, err
	}

	if len(body) == 0 {
		err = errors.New("file is empty")
		return body, err
	}

	return body, err
}

func fetchFromURL(ctx context.Context, urlStr string) (body []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return body, err
	}

	req.Header.Set("User-Agent", "folio/1.0")
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return body, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return body, err
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return body, err
	}

	if len(body) == 0 {
		err = errors.New("fetched document is empty")
		return body, err
	}

	return body, err
}
