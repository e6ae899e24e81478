package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFetcher_Fetch_SiteInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blog/members/api/site" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"site": {
			"title": "Example Site",
			"description": "Example Site Description",
			"cover_image": "https://example.com/cover.png",
			"icon": "https://example.com/favicon.ico",
			"allow_external_signup": true
		}}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL+"/blog"))

	require.NotNil(t, meta.Title)
	assert.Equal(t, "Example Site", *meta.Title)
	require.NotNil(t, meta.Excerpt)
	assert.Equal(t, "Example Site Description", *meta.Excerpt)
	require.NotNil(t, meta.FeaturedImage)
	assert.Equal(t, "https://example.com/cover.png", meta.FeaturedImage.String())
	require.NotNil(t, meta.Favicon)
	assert.Equal(t, "https://example.com/favicon.ico", meta.Favicon.String())
	assert.True(t, meta.OneClickSubscribe)
}

func TestFetcher_Fetch_SiteInfoRootFallback(t *testing.T) {
	var subdirProbed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blog/members/api/site":
			subdirProbed = true
			http.NotFound(w, r)
		case "/members/api/site":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"site": {"title": "Root Site", "allow_external_signup": false}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL+"/blog"))

	assert.True(t, subdirProbed, "subdirectory endpoint should be probed first")
	require.NotNil(t, meta.Title)
	assert.Equal(t, "Root Site", *meta.Title)
	assert.False(t, meta.OneClickSubscribe)
}

func TestFetcher_Fetch_SiteInfoEmptyFieldsNullified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"site": {
			"title": "", "description": "", "cover_image": "", "icon": "",
			"allow_external_signup": false
		}}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))

	assert.Nil(t, meta.Title)
	assert.Nil(t, meta.Excerpt)
	assert.Nil(t, meta.FeaturedImage)
	assert.Nil(t, meta.Favicon)
	assert.False(t, meta.OneClickSubscribe)
}

func TestFetcher_Fetch_MissingCapabilityFlagFallsThrough(t *testing.T) {
	// site info responds but without allow_external_signup, so the scraper
	// result must win
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/members/api/site" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"site": {"title": "Incompatible"}}`))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Scraped Title</title>
			<meta name="description" content="Scraped description">
		</head><body><p>hello</p></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))

	require.NotNil(t, meta.Title)
	assert.Equal(t, "Scraped Title", *meta.Title)
	require.NotNil(t, meta.Excerpt)
	assert.Equal(t, "Scraped description", *meta.Excerpt)
	assert.False(t, meta.OneClickSubscribe)
}

func TestFetcher_Fetch_InvalidSiteInfoJSONFallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/members/api/site" {
			_, _ = w.Write([]byte(`invalidjson`))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Page Title</title></head><body></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))

	require.NotNil(t, meta.Title)
	assert.Equal(t, "Page Title", *meta.Title)
}

func TestFetcher_Fetch_PageScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/members/api/site" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Fallback Title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG description of the site">
			<meta property="og:image" content="/images/cover.png">
			<link rel="icon" href="/favicon.ico">
		</head><body><p>content</p></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))

	require.NotNil(t, meta.Title)
	assert.Equal(t, "OG Title", *meta.Title, "og:title wins over the title element")
	require.NotNil(t, meta.Excerpt)
	assert.Equal(t, "OG description of the site", *meta.Excerpt)
	require.NotNil(t, meta.FeaturedImage, "relative image resolved against the page")
	assert.Equal(t, server.URL+"/images/cover.png", meta.FeaturedImage.String())
	require.NotNil(t, meta.Favicon)
	assert.Equal(t, server.URL+"/favicon.ico", meta.Favicon.String())
	assert.False(t, meta.OneClickSubscribe)
}

func TestFetcher_Fetch_InvalidScrapedURLsIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/members/api/site" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Title</title>
			<meta property="og:image" content="javascript:alert(1)">
		</head><body></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))

	require.NotNil(t, meta.Title)
	assert.Nil(t, meta.FeaturedImage)
}

func TestFetcher_Fetch_NeverFails(t *testing.T) {
	t.Run("unreachable host", func(t *testing.T) {
		fetcher := NewFetcher(500 * time.Millisecond)
		meta := fetcher.Fetch(context.Background(), mustParse(t, "http://127.0.0.1:1/unreachable"))
		assert.Equal(t, Metadata{}, meta)
	})

	t.Run("server errors on every path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fetcher := NewFetcher(5 * time.Second)
		meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))
		assert.Equal(t, Metadata{}, meta)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		}))
		defer server.Close()

		fetcher := NewFetcher(100 * time.Millisecond)
		meta := fetcher.Fetch(context.Background(), mustParse(t, server.URL))
		assert.Equal(t, Metadata{}, meta)
	})
}
