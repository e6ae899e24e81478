package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/service/mocks"
)

const wantIncomingFilter = "source:~$'/.well-known/recommendations.json'+deleted:[true,false]"

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func incomingEnv(t *testing.T) (*service.Incoming, *mocks.MentionsAPIMock, *mocks.EmailSenderMock, *mocks.RecommendationReaderMock) {
	t.Helper()

	api := &mocks.MentionsAPIMock{
		RefreshFunc: func(ctx context.Context, filter string, limit int) error { return nil },
		ListFunc: func(ctx context.Context, filter string, page, limit int) ([]service.Mention, service.Pagination, error) {
			return nil, service.Pagination{}, nil
		},
	}
	sender := &mocks.EmailSenderMock{
		SendFunc: func(ctx context.Context, to, subject, html, text string) error { return nil },
	}
	reader := &mocks.RecommendationReaderMock{
		ReadRecommendationByURLFunc: func(ctx context.Context, target *url.URL) (*domain.Plain, error) {
			return nil, nil
		},
	}

	incoming := service.NewIncoming(service.IncomingParams{
		Mentions:        api,
		Recommendations: reader,
		Sender:          sender,
		Recipients:      []string{"owner@mysite.com"},
		RefreshInterval: 24 * time.Hour,
	})
	return incoming, api, sender, reader
}

func TestIncoming_InitRefreshesMentions(t *testing.T) {
	t.Run("refresh uses the discovery filter", func(t *testing.T) {
		incoming, api, _, _ := incomingEnv(t)

		incoming.Init(context.Background())
		incoming.Stop()

		require.Len(t, api.RefreshCalls(), 1)
		assert.Equal(t, wantIncomingFilter, api.RefreshCalls()[0].Filter)
		assert.Equal(t, 100, api.RefreshCalls()[0].Limit)
	})

	t.Run("refresh errors do not stop the service", func(t *testing.T) {
		incoming, api, _, _ := incomingEnv(t)
		api.RefreshFunc = func(ctx context.Context, filter string, limit int) error {
			return errors.New("mentions backend down")
		}

		incoming.Init(context.Background())
		incoming.Stop()
		assert.Len(t, api.RefreshCalls(), 1)
	})
}

func TestIncoming_List(t *testing.T) {
	incoming, api, _, reader := incomingEnv(t)

	excerpt := "Incoming recommendation excerpt"
	api.ListFunc = func(ctx context.Context, filter string, page, limit int) ([]service.Mention, service.Pagination, error) {
		assert.Equal(t, wantIncomingFilter, filter)
		return []service.Mention{{
				ID:                  "mention-1",
				Source:              mustURL(t, "https://incoming-rec.com/.well-known/recommendations.json"),
				SourceTitle:         "Incoming recommendation title",
				SourceExcerpt:       &excerpt,
				SourceFavicon:       mustURL(t, "https://incoming-rec.com/favicon.ico"),
				SourceFeaturedImage: mustURL(t, "https://incoming-rec.com/image.png"),
			}}, service.Pagination{Page: 1, Limit: 5, Pages: 1, Total: 1}, nil
	}

	list, pagination, err := incoming.List(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.Equal(t, "mention-1", list[0].ID)
	assert.Equal(t, "Incoming recommendation title", list[0].Title)
	require.NotNil(t, list[0].Excerpt)
	assert.Equal(t, excerpt, *list[0].Excerpt)
	assert.Equal(t, "https://incoming-rec.com/", list[0].URL.String(), "wellknown suffix stripped")
	assert.Equal(t, "https://incoming-rec.com/favicon.ico", list[0].Favicon.String())
	assert.Equal(t, "https://incoming-rec.com/image.png", list[0].FeaturedImage.String())
	assert.False(t, list[0].RecommendingBack)
	assert.Equal(t, service.Pagination{Page: 1, Limit: 5, Pages: 1, Total: 1}, pagination)

	// resolution went through the stripped site URL
	require.Len(t, reader.ReadRecommendationByURLCalls(), 1)
	assert.Equal(t, "https://incoming-rec.com/", reader.ReadRecommendationByURLCalls()[0].Target.String())
}

func TestIncoming_List_SiteTitleWins(t *testing.T) {
	incoming, api, _, reader := incomingEnv(t)

	siteTitle := "Site Title"
	api.ListFunc = func(ctx context.Context, filter string, page, limit int) ([]service.Mention, service.Pagination, error) {
		return []service.Mention{{
			ID:              "mention-1",
			Source:          mustURL(t, "https://incoming-rec.com/.well-known/recommendations.json"),
			SourceTitle:     "Post Title",
			SourceSiteTitle: &siteTitle,
		}}, service.Pagination{}, nil
	}
	reader.ReadRecommendationByURLFunc = func(ctx context.Context, target *url.URL) (*domain.Plain, error) {
		plain := domain.Plain{ID: "rec-1"}
		return &plain, nil
	}

	list, _, err := incoming.List(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Site Title", list[0].Title)
	assert.True(t, list[0].RecommendingBack)
}

func TestIncoming_NotifyReceived(t *testing.T) {
	mention := service.Mention{
		ID:          "mention-1",
		Source:      mustURL(t, "https://incoming-rec.com/.well-known/recommendations.json"),
		SourceTitle: "Example",
	}

	t.Run("sends to every recipient", func(t *testing.T) {
		incoming, _, sender, _ := incomingEnv(t)

		incoming.NotifyReceived(context.Background(), mention)

		require.Len(t, sender.SendCalls(), 1)
		call := sender.SendCalls()[0]
		assert.Equal(t, "owner@mysite.com", call.To)
		assert.Equal(t, "👍 New recommendation: Example", call.Subject)
		assert.Contains(t, call.HTML, "https://incoming-rec.com/")
		assert.Contains(t, call.Text, "Example")
	})

	t.Run("resolution failure skips the email", func(t *testing.T) {
		incoming, _, sender, reader := incomingEnv(t)
		reader.ReadRecommendationByURLFunc = func(ctx context.Context, target *url.URL) (*domain.Plain, error) {
			return nil, errors.New("lookup failed")
		}

		incoming.NotifyReceived(context.Background(), mention)
		assert.Empty(t, sender.SendCalls())
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		incoming, _, sender, _ := incomingEnv(t)
		sender.SendFunc = func(ctx context.Context, to, subject, html, text string) error {
			return errors.New("smtp down")
		}

		incoming.NotifyReceived(context.Background(), mention)
		assert.Len(t, sender.SendCalls(), 1)
	})
}

func TestEmailRenderer(t *testing.T) {
	renderer := service.NewEmailRenderer()
	excerpt := "A fine blog"
	incoming := service.IncomingRecommendation{
		ID:               "mention-1",
		Title:            "Example",
		Excerpt:          &excerpt,
		URL:              mustURL(t, "https://example.com/"),
		RecommendingBack: true,
	}

	assert.Equal(t, "👍 New recommendation: Example", renderer.Subject(incoming))

	html, text, err := renderer.Render(incoming)
	require.NoError(t, err)
	assert.Contains(t, html, `<a href="https://example.com/">Example</a>`)
	assert.Contains(t, html, "A fine blog")
	assert.Contains(t, html, "already recommending them back")
	assert.Contains(t, text, "Example (https://example.com/)")
	assert.Contains(t, text, "A fine blog")
}
