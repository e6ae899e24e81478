package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/feedmesh/blogroll/pkg/service"
)

// MentionsClient talks to an external mentions backend over HTTP. It covers
// both directions, pulling mentions of our discovery document and pushing
// notifications about outbound recommendations. With an empty endpoint every
// call is a no-op, the feature is simply off.
type MentionsClient struct {
	endpoint string
	client   *http.Client
}

// NewMentionsClient creates a client for the given base URL, empty disables it
func NewMentionsClient(endpoint string, timeout time.Duration) *MentionsClient {
	return &MentionsClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// wireMention mirrors the backend's mention representation
type wireMention struct {
	ID                  string  `json:"id"`
	Source              string  `json:"source"`
	SourceTitle         string  `json:"source_title"`
	SourceSiteTitle     *string `json:"source_site_title"`
	SourceExcerpt       *string `json:"source_excerpt"`
	SourceFavicon       *string `json:"source_favicon"`
	SourceFeaturedImage *string `json:"source_featured_image"`
}

type mentionsPage struct {
	Mentions []wireMention `json:"mentions"`
	Meta     struct {
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Pages int `json:"pages"`
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// Refresh asks the backend to re-crawl mentions matching the filter
func (c *MentionsClient) Refresh(ctx context.Context, filter string, limit int) error {
	if c.endpoint == "" {
		return nil
	}

	query := url.Values{"filter": {filter}, "limit": {strconv.Itoa(limit)}}
	target := c.endpoint + "/mentions/refresh?" + query.Encode()

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
		if err != nil {
			return fmt.Errorf("create refresh request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("refresh mentions: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("refresh mentions: unexpected status %d", resp.StatusCode)
		}
		return nil
	})
}

// List returns one page of mentions matching the filter
func (c *MentionsClient) List(ctx context.Context, filter string, page, limit int) ([]service.Mention, service.Pagination, error) {
	if c.endpoint == "" {
		return nil, service.Pagination{Page: page, Limit: limit}, nil
	}

	query := url.Values{"filter": {filter}, "page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	target := c.endpoint + "/mentions?" + query.Encode()

	var result mentionsPage
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return fmt.Errorf("create list request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("list mentions: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("list mentions: unexpected status %d", resp.StatusCode)
		}
		result = mentionsPage{}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&result); err != nil {
			return fmt.Errorf("decode mentions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, service.Pagination{}, err
	}

	mentions := make([]service.Mention, 0, len(result.Mentions))
	for _, m := range result.Mentions {
		source, err := url.Parse(m.Source)
		if err != nil || source.Host == "" {
			lgr.Printf("[WARN] skip mention %s with bad source %q", m.ID, m.Source)
			continue
		}
		mentions = append(mentions, service.Mention{
			ID:                  m.ID,
			Source:              source,
			SourceTitle:         m.SourceTitle,
			SourceSiteTitle:     m.SourceSiteTitle,
			SourceExcerpt:       m.SourceExcerpt,
			SourceFavicon:       parseOptionalURL(m.SourceFavicon),
			SourceFeaturedImage: parseOptionalURL(m.SourceFeaturedImage),
		})
	}

	p := result.Meta.Pagination
	return mentions, service.Pagination{Page: p.Page, Limit: p.Limit, Pages: p.Pages, Total: p.Total}, nil
}

// SendAll notifies the backend about outbound recommendation targets so it
// can deliver webmentions on our behalf
func (c *MentionsClient) SendAll(ctx context.Context, source *url.URL, links []*url.URL) error {
	if c.endpoint == "" || len(links) == 0 {
		return nil
	}

	payload := struct {
		Source string   `json:"source"`
		Links  []string `json:"links"`
	}{Source: source.String()}
	for _, link := range links {
		payload.Links = append(payload.Links, link.String())
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/mentions/send", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create send request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("send mentions: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("send mentions: unexpected status %d", resp.StatusCode)
		}
		return nil
	})
}

func parseOptionalURL(raw *string) *url.URL {
	if raw == nil {
		return nil
	}
	u, err := url.Parse(*raw)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}
