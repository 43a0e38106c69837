package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/uvdocs"
)

// Default PyPI endpoints for the uv package.
const (
	DefaultPyPIURL = "https://pypi.org/pypi/uv/json"
	DefaultFeedURL = "https://pypi.org/rss/project/uv/releases.xml"
)

// Ensure sources implement uvdocs.VersionSource at compile time.
var (
	_ uvdocs.VersionSource = (*PyPISource)(nil)
	_ uvdocs.VersionSource = (*ReleaseFeedSource)(nil)
)

// PyPISource reads the latest uv version from the PyPI JSON API.
type PyPISource struct {
	client *http.Client
	url    string
}

// NewPyPISource creates a PyPISource for the JSON document at url.
// If client is nil, http.DefaultClient is used. If url is empty,
// DefaultPyPIURL is used.
func NewPyPISource(client *http.Client, url string) *PyPISource {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultPyPIURL
	}
	return &PyPISource{client: client, url: url}
}

// Name returns the source's identifier.
func (s *PyPISource) Name() string {
	return "pypi"
}

// LatestVersion returns info.version from the project JSON.
func (s *PyPISource) LatestVersion(ctx context.Context) (string, error) {
	body, err := get(ctx, s.client, s.url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var payload struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "decoding PyPI response: %v", err)
	}

	version := strings.TrimSpace(payload.Info.Version)
	if version == "" {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "PyPI response has no info.version")
	}
	return version, nil
}

// ReleaseFeedSource reads the latest uv version from the PyPI release RSS
// feed. The newest release is the first item.
type ReleaseFeedSource struct {
	client *http.Client
	url    string
}

// NewReleaseFeedSource creates a ReleaseFeedSource for the feed at url.
// If client is nil, http.DefaultClient is used. If url is empty,
// DefaultFeedURL is used.
func NewReleaseFeedSource(client *http.Client, url string) *ReleaseFeedSource {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultFeedURL
	}
	return &ReleaseFeedSource{client: client, url: url}
}

// Name returns the source's identifier.
func (s *ReleaseFeedSource) Name() string {
	return "pypi-rss"
}

// LatestVersion returns the title of the first channel item.
func (s *ReleaseFeedSource) LatestVersion(ctx context.Context) (string, error) {
	body, err := get(ctx, s.client, s.url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "parsing release feed XML: %v", err)
	}

	title := doc.FindElement("//channel/item/title")
	if title == nil {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "release feed has no items")
	}

	version := strings.TrimSpace(title.Text())
	if version == "" {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "release feed item has empty title")
	}
	return version, nil
}

// get fetches targetURL and returns the response body for a 200 response.
func get(ctx context.Context, client *http.Client, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.EFETCH, "fetching %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, uvdocs.Errorf(uvdocs.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
