package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionsClient_List(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mentions", r.URL.Path)
		assert.Equal(t, "source-filter", r.URL.Query().Get("filter"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"mentions": [
				{
					"id": "m1",
					"source": "https://other-site.com/.well-known/recommendations.json",
					"source_title": "Other Site",
					"source_site_title": "Other Site Blog",
					"source_favicon": "https://other-site.com/favicon.ico"
				},
				{"id": "m2", "source": "not a url", "source_title": "Broken"}
			],
			"meta": {"pagination": {"page": 1, "limit": 100, "pages": 1, "total": 2}}
		}`))
	}))
	defer ts.Close()

	client := NewMentionsClient(ts.URL, time.Second)
	mentions, pagination, err := client.List(context.Background(), "source-filter", 1, 100)
	require.NoError(t, err)

	// the mention with an unparseable source is dropped
	require.Len(t, mentions, 1)
	assert.Equal(t, "m1", mentions[0].ID)
	assert.Equal(t, "https://other-site.com/.well-known/recommendations.json", mentions[0].Source.String())
	require.NotNil(t, mentions[0].SourceSiteTitle)
	assert.Equal(t, "Other Site Blog", *mentions[0].SourceSiteTitle)
	require.NotNil(t, mentions[0].SourceFavicon)
	assert.Nil(t, mentions[0].SourceFeaturedImage)

	assert.Equal(t, 2, pagination.Total)
}

func TestMentionsClient_Refresh(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mentions/refresh", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewMentionsClient(ts.URL, time.Second)
	require.NoError(t, client.Refresh(context.Background(), "source-filter", 100))
	assert.True(t, called)
}

func TestMentionsClient_SendAll(t *testing.T) {
	var payload struct {
		Source string   `json:"source"`
		Links  []string `json:"links"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mentions/send", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	source, _ := url.Parse("https://mysite.com/.well-known/recommendations.json")
	link, _ := url.Parse("https://example.com/")

	client := NewMentionsClient(ts.URL, time.Second)
	require.NoError(t, client.SendAll(context.Background(), source, []*url.URL{link}))

	assert.Equal(t, "https://mysite.com/.well-known/recommendations.json", payload.Source)
	assert.Equal(t, []string{"https://example.com/"}, payload.Links)
}

func TestMentionsClient_DisabledWithoutEndpoint(t *testing.T) {
	client := NewMentionsClient("", time.Second)

	require.NoError(t, client.Refresh(context.Background(), "f", 100))

	mentions, pagination, err := client.List(context.Background(), "f", 3, 10)
	require.NoError(t, err)
	assert.Empty(t, mentions)
	assert.Equal(t, 3, pagination.Page)

	source, _ := url.Parse("https://mysite.com/")
	require.NoError(t, client.SendAll(context.Background(), source, []*url.URL{source}))
}
