// Package metadata resolves title, excerpt, image, favicon and the
// one-click-subscribe capability for a remote blog URL. Fetch never fails:
// every step of the fallback chain degrades to unknown fields instead of
// returning an error to the caller.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

// maxBodySize caps how much of a third-party response is read
const maxBodySize = 2 << 20

// Metadata holds what could be discovered about a remote site, all fields
// except OneClickSubscribe are nil when unknown
type Metadata struct {
	Title             *string
	Excerpt           *string
	FeaturedImage     *url.URL
	Favicon           *url.URL
	OneClickSubscribe bool
}

// Fetcher probes remote sites for metadata with a bounded-timeout client
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a metadata fetcher, timeout bounds every outbound call
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch resolves metadata for the target URL. It first probes the site-info
// endpoint at the URL's own path and then at the root, accepting the response
// only when it carries the external-signup capability flag. When neither
// probe yields a compatible site it falls back to scraping the page itself.
// Transport errors at any step are logged and treated as "nothing found".
func (f *Fetcher) Fetch(ctx context.Context, target *url.URL) Metadata {
	for _, probe := range siteInfoProbes(target) {
		meta, err := f.fetchSiteInfo(ctx, probe)
		if err != nil {
			lgr.Printf("[DEBUG] site info probe %s failed: %v", probe, err)
			continue
		}
		return meta
	}

	meta, err := f.scrapePage(ctx, target)
	if err != nil {
		lgr.Printf("[WARN] metadata fetch for %s produced nothing: %v", target, err)
		return Metadata{}
	}
	return meta
}

// siteInfoProbes returns the site-info endpoints to try, subdirectory first
func siteInfoProbes(target *url.URL) []*url.URL {
	root := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/members/api/site"}
	if strings.Trim(target.Path, "/") == "" {
		return []*url.URL{root}
	}
	sub := &url.URL{Scheme: target.Scheme, Host: target.Host,
		Path: "/" + strings.Trim(target.Path, "/") + "/members/api/site"}
	return []*url.URL{sub, root}
}

type siteInfoResponse struct {
	Site struct {
		Title               string `json:"title"`
		Description         string `json:"description"`
		CoverImage          string `json:"cover_image"`
		Icon                string `json:"icon"`
		AllowExternalSignup *bool  `json:"allow_external_signup"`
	} `json:"site"`
}

func (f *Fetcher) fetchSiteInfo(ctx context.Context, endpoint *url.URL) (Metadata, error) {
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return Metadata{}, err
	}

	var info siteInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return Metadata{}, fmt.Errorf("parse site info: %w", err)
	}
	// a response without the capability flag is not a compatible instance
	if info.Site.AllowExternalSignup == nil {
		return Metadata{}, fmt.Errorf("site info at %s lacks signup capability flag", endpoint)
	}

	return Metadata{
		Title:             optionalString(info.Site.Title),
		Excerpt:           optionalString(info.Site.Description),
		FeaturedImage:     parseAbsoluteURL(info.Site.CoverImage),
		Favicon:           parseAbsoluteURL(info.Site.Icon),
		OneClickSubscribe: *info.Site.AllowExternalSignup,
	}, nil
}

// get performs a single bounded GET, no retries, body always closed
func (f *Fetcher) get(ctx context.Context, endpoint *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Blogroll/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return body, nil
}

// optionalString returns nil for blank strings
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseAbsoluteURL returns nil for anything that is not an absolute http(s) URL
func parseAbsoluteURL(s string) *url.URL {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	return u
}
