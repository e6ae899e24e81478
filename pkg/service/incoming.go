package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedmesh/blogroll/pkg/domain"
)

//go:generate moq -out mocks/mentions_api.go -pkg mocks -skip-ensure -fmt goimports . MentionsAPI
//go:generate moq -out mocks/email_sender.go -pkg mocks -skip-ensure -fmt goimports . EmailSender
//go:generate moq -out mocks/recommendation_reader.go -pkg mocks -skip-ensure -fmt goimports . RecommendationReader

// incomingFilter selects mentions originating from a discovery document,
// including deleted ones so reciprocal removals are observed too
const incomingFilter = "source:~$'/" + WellknownPath + "'+deleted:[true,false]"

// incomingLimit caps how many mentions a refresh pulls in one call
const incomingLimit = 100

// Mention is an externally reported reference to this site, produced by the
// mentions backend
type Mention struct {
	ID                  string
	Source              *url.URL
	SourceTitle         string
	SourceSiteTitle     *string
	SourceExcerpt       *string
	SourceFavicon       *url.URL
	SourceFeaturedImage *url.URL
}

// Pagination describes one page of a mention listing
type Pagination struct {
	Page  int
	Limit int
	Pages int
	Total int
}

// MentionsAPI is the external mentions backend, the ingestion protocol
// itself lives outside this service
type MentionsAPI interface {
	Refresh(ctx context.Context, filter string, limit int) error
	List(ctx context.Context, filter string, page, limit int) ([]Mention, Pagination, error)
}

// EmailSender delivers a rendered notification, the transport is external
type EmailSender interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// RecommendationReader resolves a URL to a stored recommendation, used to
// detect whether we already recommend a site back
type RecommendationReader interface {
	ReadRecommendationByURL(ctx context.Context, target *url.URL) (*domain.Plain, error)
}

// IncomingRecommendation is a "recommends you back" signal derived from a
// mention of the discovery document
type IncomingRecommendation struct {
	ID               string
	Title            string
	Excerpt          *string
	URL              *url.URL
	Favicon          *url.URL
	FeaturedImage    *url.URL
	RecommendingBack bool
}

// IncomingParams groups the collaborators of the incoming service
type IncomingParams struct {
	Mentions        MentionsAPI
	Recommendations RecommendationReader
	Sender          EmailSender
	Renderer        *EmailRenderer
	Recipients      []string
	RefreshInterval time.Duration // defaults to 24h
}

// Incoming watches for reciprocal recommendations reported through mentions
// and notifies staff by email when one arrives
type Incoming struct {
	mentions        MentionsAPI
	recommendations RecommendationReader
	sender          EmailSender
	renderer        *EmailRenderer
	recipients      []string
	refreshInterval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewIncoming creates the incoming recommendation service
func NewIncoming(p IncomingParams) *Incoming {
	if p.RefreshInterval == 0 {
		p.RefreshInterval = 24 * time.Hour
	}
	if p.Renderer == nil {
		p.Renderer = NewEmailRenderer()
	}
	return &Incoming{
		mentions:        p.Mentions,
		recommendations: p.Recommendations,
		sender:          p.Sender,
		renderer:        p.Renderer,
		recipients:      p.Recipients,
		refreshInterval: p.RefreshInterval,
	}
}

// Init starts the recurring mention refresh, Stop releases the worker
func (i *Incoming) Init(ctx context.Context) {
	ctx, i.cancel = context.WithCancel(ctx)
	i.wg.Add(1)
	go i.refreshWorker(ctx)
	lgr.Printf("[INFO] incoming recommendation service started, refresh every %v", i.refreshInterval)
}

// Stop gracefully stops the background refresh
func (i *Incoming) Stop() {
	if i.cancel != nil {
		i.cancel()
	}
	i.wg.Wait()
	lgr.Printf("[INFO] incoming recommendation service stopped")
}

func (i *Incoming) refreshWorker(ctx context.Context) {
	defer i.wg.Done()

	ticker := time.NewTicker(i.refreshInterval)
	defer ticker.Stop()

	i.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.refresh(ctx)
		}
	}
}

// refresh asks the mentions backend to re-verify known sources, errors are
// logged and never stop the schedule
func (i *Incoming) refresh(ctx context.Context) {
	if err := i.mentions.Refresh(ctx, incomingFilter, incomingLimit); err != nil {
		lgr.Printf("[WARN] failed to refresh incoming mentions: %v", err)
	}
}

// List returns one page of incoming recommendations with pagination metadata
func (i *Incoming) List(ctx context.Context, page, limit int) ([]IncomingRecommendation, Pagination, error) {
	mentions, pagination, err := i.mentions.List(ctx, incomingFilter, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	result := make([]IncomingRecommendation, 0, len(mentions))
	for _, mention := range mentions {
		incoming, err := i.convert(ctx, mention)
		if err != nil {
			lgr.Printf("[WARN] skipping mention %s: %v", mention.ID, err)
			continue
		}
		result = append(result, incoming)
	}
	return result, pagination, nil
}

// NotifyReceived renders and sends the new-recommendation email for a
// qualifying mention. Failures are logged, nothing propagates past this
// boundary.
func (i *Incoming) NotifyReceived(ctx context.Context, mention Mention) {
	incoming, err := i.convert(ctx, mention)
	if err != nil {
		lgr.Printf("[WARN] ignoring mention %s: %v", mention.ID, err)
		return
	}

	subject := i.renderer.Subject(incoming)
	html, text, err := i.renderer.Render(incoming)
	if err != nil {
		lgr.Printf("[WARN] failed to render notification for %s: %v", incoming.URL, err)
		return
	}

	for _, recipient := range i.recipients {
		if err := i.sender.Send(ctx, recipient, subject, html, text); err != nil {
			lgr.Printf("[WARN] failed to send notification to %s: %v", recipient, err)
		}
	}
}

// convert maps a mention to an incoming recommendation. The source URL is
// the discovery document itself, stripping its fixed suffix yields the
// recommending site.
func (i *Incoming) convert(ctx context.Context, mention Mention) (IncomingRecommendation, error) {
	title := mention.SourceTitle
	if mention.SourceSiteTitle != nil && *mention.SourceSiteTitle != "" {
		title = *mention.SourceSiteTitle
	}

	site := siteFromSource(mention.Source)

	existing, err := i.recommendations.ReadRecommendationByURL(ctx, site)
	if err != nil {
		return IncomingRecommendation{}, err
	}

	return IncomingRecommendation{
		ID:               mention.ID,
		Title:            title,
		Excerpt:          mention.SourceExcerpt,
		URL:              site,
		Favicon:          mention.SourceFavicon,
		FeaturedImage:    mention.SourceFeaturedImage,
		RecommendingBack: existing != nil,
	}, nil
}

// siteFromSource strips the discovery-document path off a mention source
func siteFromSource(source *url.URL) *url.URL {
	site := *source
	site.Path = strings.TrimSuffix(site.Path, "/"+WellknownPath)
	if site.Path == "" {
		site.Path = "/"
	}
	return &site
}
