package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/metadata"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/service/mocks"
	"github.com/feedmesh/blogroll/pkg/store"
)

type testEnv struct {
	svc      *service.Service
	stores   *store.Stores
	fetcher  *mocks.MetadataFetcherMock
	mentions *mocks.MentionSenderMock
	dir      string
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	stores, err := store.NewStores(context.Background(), store.Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, stores.Close()) })

	fetcher := &mocks.MetadataFetcherMock{
		FetchFunc: func(ctx context.Context, target *url.URL) metadata.Metadata {
			return metadata.Metadata{}
		},
	}
	mentions := &mocks.MentionSenderMock{
		SendAllFunc: func(ctx context.Context, source *url.URL, links []*url.URL) error {
			return nil
		},
	}

	dir := t.TempDir()
	siteURL, err := url.Parse("https://mysite.com")
	require.NoError(t, err)

	svc := service.NewService(service.Params{
		Store:      stores.Recommendations,
		Clicks:     stores.ClickEvents,
		Subscribes: stores.SubscribeEvents,
		Settings:   stores.Settings,
		Fetcher:    fetcher,
		Mentions:   mentions,
		Wellknown:  service.NewWellknown(dir, siteURL),
	})

	return &testEnv{svc: svc, stores: stores, fetcher: fetcher, mentions: mentions, dir: dir}
}

func plainInput(t *testing.T, title, rawURL string) domain.Plain {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return domain.Plain{Title: title, URL: u}
}

func (e *testEnv) wellknownDoc(t *testing.T) []map[string]string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(e.dir, ".well-known", "recommendations.json"))
	require.NoError(t, err)
	var doc []map[string]string
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc
}

func TestService_AddRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("returns plain on success", func(t *testing.T) {
		env := setupService(t)

		plain, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)

		assert.NotEmpty(t, plain.ID)
		assert.Equal(t, "My Blog", plain.Title)
		assert.Equal(t, "https://example.com/blog", plain.URL.String())
		assert.False(t, plain.CreatedAt.IsZero())
		assert.Nil(t, plain.UpdatedAt)

		enabled, err := env.stores.Settings.GetBool(ctx, store.SettingRecommendationsEnabled)
		require.NoError(t, err)
		assert.True(t, enabled)

		// outbound mention carries the discovery document and the new URL
		require.Len(t, env.mentions.SendAllCalls(), 1)
		call := env.mentions.SendAllCalls()[0]
		assert.Equal(t, "https://mysite.com/.well-known/recommendations.json", call.Source.String())
		require.Len(t, call.Links, 1)
		assert.Equal(t, "https://example.com/blog", call.Links[0].String())

		doc := env.wellknownDoc(t)
		require.Len(t, doc, 1)
		assert.Equal(t, "https://example.com/blog", doc[0]["url"])
	})

	t.Run("rejects URL duplicate by host and path", func(t *testing.T) {
		env := setupService(t)

		_, err := env.svc.AddRecommendation(ctx, plainInput(t, "First", "https://example.com/blog"))
		require.NoError(t, err)

		_, err = env.svc.AddRecommendation(ctx, plainInput(t, "Second", "HTTP://WWW.EXAMPLE.COM/blog?utm=1#top"))
		require.Error(t, err)
		assert.EqualError(t, err, "A recommendation with this URL already exists.")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("mention failure does not fail the write", func(t *testing.T) {
		env := setupService(t)
		env.mentions.SendAllFunc = func(ctx context.Context, source *url.URL, links []*url.URL) error {
			return errors.New("network down")
		}

		_, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)
		assert.Len(t, env.mentions.SendAllCalls(), 1)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		env := setupService(t)
		_, err := env.svc.AddRecommendation(ctx, plainInput(t, "", "https://example.com/blog"))
		assert.EqualError(t, err, "Title must not be empty")
	})
}

func TestService_EditRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		env := setupService(t)
		_, err := env.svc.EditRecommendation(ctx, "missing", domain.Patch{Title: domain.Set("New")})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.EqualError(t, err, "Recommendation with id missing not found")
	})

	t.Run("applies patch and persists", func(t *testing.T) {
		env := setupService(t)
		added, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)

		desc := "about things"
		edited, err := env.svc.EditRecommendation(ctx, added.ID, domain.Patch{
			Title:       domain.Set("Renamed"),
			Description: domain.Set(&desc),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", edited.Title)
		require.NotNil(t, edited.Description)
		assert.Equal(t, "about things", *edited.Description)
		assert.NotNil(t, edited.UpdatedAt)

		stored, err := env.svc.ReadRecommendation(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Title)
	})

	t.Run("rejects invalid patch", func(t *testing.T) {
		env := setupService(t)
		added, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)

		_, err = env.svc.EditRecommendation(ctx, added.ID, domain.Patch{Title: domain.Set("")})
		assert.EqualError(t, err, "Title must not be empty")
	})
}

func TestService_DeleteRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		env := setupService(t)
		err := env.svc.DeleteRecommendation(ctx, "missing")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("hides record and flips the enabled setting", func(t *testing.T) {
		env := setupService(t)
		added, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)

		require.NoError(t, env.svc.DeleteRecommendation(ctx, added.ID))

		_, err = env.svc.ReadRecommendation(ctx, added.ID)
		assert.True(t, domain.IsNotFound(err))

		enabled, err := env.stores.Settings.GetBool(ctx, store.SettingRecommendationsEnabled)
		require.NoError(t, err)
		assert.False(t, enabled)

		assert.Empty(t, env.wellknownDoc(t))
	})
}

func TestService_CheckRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown URL returns draft from fetched metadata", func(t *testing.T) {
		env := setupService(t)
		title, excerpt := "Remote Blog", "remote excerpt"
		env.fetcher.FetchFunc = func(ctx context.Context, target *url.URL) metadata.Metadata {
			return metadata.Metadata{Title: &title, Excerpt: &excerpt, OneClickSubscribe: true}
		}

		u, err := url.Parse("https://remote.com/blog")
		require.NoError(t, err)
		draft, err := env.svc.CheckRecommendation(ctx, u)
		require.NoError(t, err)

		assert.Empty(t, draft.ID, "a draft has no identity")
		assert.True(t, draft.CreatedAt.IsZero())
		assert.Equal(t, "Remote Blog", draft.Title)
		require.NotNil(t, draft.Excerpt)
		assert.Equal(t, "remote excerpt", *draft.Excerpt)
		assert.True(t, draft.OneClickSubscribe)
		assert.Equal(t, "https://remote.com/blog", draft.URL.String())
	})

	t.Run("unknown URL never fails even when the fetch produces nothing", func(t *testing.T) {
		env := setupService(t)

		u, err := url.Parse("https://remote.com/blog")
		require.NoError(t, err)
		draft, err := env.svc.CheckRecommendation(ctx, u)
		require.NoError(t, err)

		assert.Empty(t, draft.Title)
		assert.Nil(t, draft.Excerpt)
		assert.Nil(t, draft.FeaturedImage)
		assert.Nil(t, draft.Favicon)
		assert.False(t, draft.OneClickSubscribe)
	})

	t.Run("existing URL merges fresh metadata without persisting", func(t *testing.T) {
		env := setupService(t)
		added, err := env.svc.AddRecommendation(ctx, plainInput(t, "Stored Title", "https://example.com/blog"))
		require.NoError(t, err)

		title, excerpt := "Fetched Title", "fetched excerpt"
		env.fetcher.FetchFunc = func(ctx context.Context, target *url.URL) metadata.Metadata {
			return metadata.Metadata{Title: &title, Excerpt: &excerpt, OneClickSubscribe: true}
		}

		preview, err := env.svc.CheckRecommendation(ctx, added.URL)
		require.NoError(t, err)

		assert.Equal(t, added.ID, preview.ID)
		assert.Equal(t, "Stored Title", preview.Title, "a non-empty stored title is kept")
		require.NotNil(t, preview.Excerpt)
		assert.Equal(t, "fetched excerpt", *preview.Excerpt)
		assert.True(t, preview.OneClickSubscribe)

		// nothing was persisted
		stored, err := env.svc.ReadRecommendation(ctx, added.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Excerpt)
		assert.False(t, stored.OneClickSubscribe)
	})

	t.Run("existing URL with empty metadata returns stored unchanged", func(t *testing.T) {
		env := setupService(t)
		added, err := env.svc.AddRecommendation(ctx, plainInput(t, "Stored Title", "https://example.com/blog"))
		require.NoError(t, err)

		preview, err := env.svc.CheckRecommendation(ctx, added.URL)
		require.NoError(t, err)
		assert.Equal(t, added.ID, preview.ID)
		assert.Equal(t, "Stored Title", preview.Title)
		assert.Nil(t, preview.Excerpt)
	})
}

func TestService_ReadRecommendationByURL(t *testing.T) {
	ctx := context.Background()
	env := setupService(t)

	added, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		u, err := url.Parse("https://www.example.com/blog?ref=1")
		require.NoError(t, err)
		plain, err := env.svc.ReadRecommendationByURL(ctx, u)
		require.NoError(t, err)
		require.NotNil(t, plain)
		assert.Equal(t, added.ID, plain.ID)
	})

	t.Run("absent is nil, not an error", func(t *testing.T) {
		u, err := url.Parse("https://other.com/")
		require.NoError(t, err)
		plain, err := env.svc.ReadRecommendationByURL(ctx, u)
		require.NoError(t, err)
		assert.Nil(t, plain)
	})
}

func TestService_ListAndCount(t *testing.T) {
	ctx := context.Background()
	env := setupService(t)

	for _, in := range []struct{ title, url string }{
		{"Alpha", "https://a.com/"},
		{"Beta", "https://b.com/"},
		{"Gamma", "https://c.com/"},
	} {
		_, err := env.svc.AddRecommendation(ctx, plainInput(t, in.title, in.url))
		require.NoError(t, err)
	}

	page, err := env.svc.ListRecommendations(ctx, store.Options{
		Page: 1, Limit: 2,
		Order: []store.Order{{Field: "title", Direction: store.Asc}},
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Title)
	assert.Equal(t, "Beta", page[1].Title)

	count, err := env.svc.CountRecommendations(ctx, store.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_Tracking(t *testing.T) {
	ctx := context.Background()
	env := setupService(t)

	added, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
	require.NoError(t, err)

	t.Run("click without member allowed", func(t *testing.T) {
		require.NoError(t, env.svc.TrackClicked(ctx, added.ID, nil))
		count, err := env.stores.ClickEvents.GetCount(ctx, store.Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("subscribe requires a member", func(t *testing.T) {
		err := env.svc.TrackSubscribed(ctx, added.ID, "")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("subscribe records exactly one event", func(t *testing.T) {
		require.NoError(t, env.svc.TrackSubscribed(ctx, added.ID, "member-1"))
		count, err := env.stores.SubscribeEvents.GetCount(ctx, store.Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestService_RefreshAllMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("one failing entry does not block the rest", func(t *testing.T) {
		env := setupService(t)

		urls := []string{"https://a.com/", "https://b.com/", "https://c.com/"}
		ids := make(map[string]string, len(urls)) // url -> id
		for i, raw := range urls {
			added, err := env.svc.AddRecommendation(ctx, plainInput(t, "Blog "+string(rune('A'+i)), raw))
			require.NoError(t, err)
			ids[raw] = added.ID
		}

		excerpt := "refreshed"
		env.fetcher.FetchFunc = func(ctx context.Context, target *url.URL) metadata.Metadata {
			if target.Host == "b.com" {
				// transport failure, the fetcher degrades to nothing
				return metadata.Metadata{}
			}
			return metadata.Metadata{Excerpt: &excerpt}
		}

		env.svc.RefreshAllMetadata(ctx)

		for _, raw := range urls {
			stored, err := env.svc.ReadRecommendation(ctx, ids[raw])
			require.NoError(t, err)
			if raw == "https://b.com/" {
				assert.Nil(t, stored.Excerpt, "failed fetch keeps stored fields")
				continue
			}
			require.NotNil(t, stored.Excerpt, "sibling of a failed fetch must still refresh")
			assert.Equal(t, "refreshed", *stored.Excerpt)
		}
	})

	t.Run("sweeps do not overlap", func(t *testing.T) {
		env := setupService(t)
		_, err := env.svc.AddRecommendation(ctx, plainInput(t, "My Blog", "https://example.com/blog"))
		require.NoError(t, err)

		release := make(chan struct{})
		started := make(chan struct{})
		var once sync.Once
		env.fetcher.FetchFunc = func(ctx context.Context, target *url.URL) metadata.Metadata {
			once.Do(func() { close(started) })
			<-release
			return metadata.Metadata{}
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.svc.RefreshAllMetadata(ctx)
		}()

		<-started
		env.svc.RefreshAllMetadata(ctx) // overlapping trigger, skipped
		close(release)
		wg.Wait()

		assert.Len(t, env.fetcher.FetchCalls(), 1, "the overlapping sweep must not fetch")
	})
}

func TestService_InitAndStop(t *testing.T) {
	env := setupService(t)
	_, err := env.svc.AddRecommendation(context.Background(), plainInput(t, "My Blog", "https://example.com/blog"))
	require.NoError(t, err)

	require.NoError(t, env.svc.Init(context.Background()))
	env.svc.Stop()

	// init published the document
	assert.Len(t, env.wellknownDoc(t), 1)
}
