// Package service orchestrates the recommendation lifecycle: persistence,
// metadata enrichment, discovery-document publishing, event tracking and the
// periodic metadata refresh.
package service

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/metadata"
	"github.com/feedmesh/blogroll/pkg/store"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . MetadataFetcher
//go:generate moq -out mocks/mention_sender.go -pkg mocks -skip-ensure -fmt goimports . MentionSender

// RecommendationStore is the persistent backend for recommendations
type RecommendationStore interface {
	Save(ctx context.Context, rec *domain.Recommendation) error
	GetByID(ctx context.Context, id string) (*domain.Recommendation, error)
	GetByURL(ctx context.Context, u *url.URL) (*domain.Recommendation, error)
	GetAll(ctx context.Context, opts store.Options) ([]*domain.Recommendation, error)
	GetPage(ctx context.Context, opts store.Options) ([]*domain.Recommendation, error)
	GetCount(ctx context.Context, opts store.Options) (int, error)
	GetGroupedCount(ctx context.Context, groupBy string, opts store.Options) ([]store.GroupCount, error)
}

// ClickEventStore records click events
type ClickEventStore interface {
	Save(ctx context.Context, ev domain.ClickEvent) error
}

// SubscribeEventStore records subscribe events
type SubscribeEventStore interface {
	Save(ctx context.Context, ev domain.SubscribeEvent) error
}

// SettingsStore persists the recommendations-enabled flag
type SettingsStore interface {
	SetBool(ctx context.Context, key string, value bool) error
}

// MetadataFetcher resolves remote site metadata, an all-zero result means the
// fetch produced nothing
type MetadataFetcher interface {
	Fetch(ctx context.Context, target *url.URL) metadata.Metadata
}

// MentionSender notifies remote sites about outbound recommendations,
// failures are logged and never block a write
type MentionSender interface {
	SendAll(ctx context.Context, source *url.URL, links []*url.URL) error
}

// Params groups the collaborators of the recommendation service
type Params struct {
	Store           RecommendationStore
	Clicks          ClickEventStore
	Subscribes      SubscribeEventStore
	Settings        SettingsStore
	Fetcher         MetadataFetcher
	Mentions        MentionSender
	Wellknown       *Wellknown
	RefreshInterval time.Duration // defaults to 24h
	MaxWorkers      int           // concurrent metadata fetches in a sweep, defaults to 5
}

// Service exposes the full recommendation lifecycle. It owns one recurring
// background job, the full metadata refresh started by Init.
type Service struct {
	recs            RecommendationStore
	clicks          ClickEventStore
	subscribes      SubscribeEventStore
	settings        SettingsStore
	fetcher         MetadataFetcher
	mentions        MentionSender
	wellknown       *Wellknown
	refreshInterval time.Duration
	maxWorkers      int

	refreshing sync.Mutex // guards against overlapping sweeps
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// NewService creates the recommendation service
func NewService(p Params) *Service {
	if p.RefreshInterval == 0 {
		p.RefreshInterval = 24 * time.Hour
	}
	if p.MaxWorkers == 0 {
		p.MaxWorkers = 5
	}
	return &Service{
		recs:            p.Store,
		clicks:          p.Clicks,
		subscribes:      p.Subscribes,
		settings:        p.Settings,
		fetcher:         p.Fetcher,
		mentions:        p.Mentions,
		wellknown:       p.Wellknown,
		refreshInterval: p.RefreshInterval,
		maxWorkers:      p.MaxWorkers,
	}
}

// Init publishes the discovery document and starts the recurring metadata
// refresh. Stop must be called to release the background worker.
func (s *Service) Init(ctx context.Context) error {
	if err := s.publishWellknown(ctx); err != nil {
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.refreshWorker(ctx)

	lgr.Printf("[INFO] recommendation service started, metadata refresh every %v", s.refreshInterval)
	return nil
}

// Stop gracefully stops the background refresh
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] recommendation service stopped")
}

func (s *Service) refreshWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	// run once on start
	s.RefreshAllMetadata(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshAllMetadata(ctx)
		}
	}
}

// RefreshAllMetadata re-fetches metadata for every stored recommendation.
// At most one sweep runs at a time, an overlapping trigger is skipped. One
// entry's failure is logged and never aborts the rest of the batch.
func (s *Service) RefreshAllMetadata(ctx context.Context) {
	if !s.refreshing.TryLock() {
		lgr.Printf("[INFO] metadata refresh already running, skipping")
		return
	}
	defer s.refreshing.Unlock()

	recommendations, err := s.recs.GetAll(ctx, store.Options{})
	if err != nil {
		lgr.Printf("[ERROR] metadata refresh failed to list recommendations: %v", err)
		return
	}

	lgr.Printf("[INFO] refreshing metadata for %d recommendations", len(recommendations))

	sem := make(chan struct{}, s.maxWorkers)
	var wg sync.WaitGroup

	for _, rec := range recommendations {
		wg.Add(1)
		go func(rec *domain.Recommendation) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := s.refreshMetadata(ctx, rec); err != nil {
				lgr.Printf("[WARN] metadata refresh failed for %s: %v", rec.URL, err)
			}
		}(rec)
	}

	wg.Wait()
	lgr.Printf("[INFO] metadata refresh completed")
}

// refreshMetadata re-fetches and persists metadata for a single recommendation
func (s *Service) refreshMetadata(ctx context.Context, rec *domain.Recommendation) error {
	meta := s.fetcher.Fetch(ctx, rec.URL)
	if meta == (metadata.Metadata{}) {
		lgr.Printf("[DEBUG] no metadata for %s, keeping stored fields", rec.URL)
		return nil
	}

	if err := rec.Edit(mergePatch(rec, meta)); err != nil {
		return err
	}
	return s.recs.Save(ctx, rec)
}

// mergePatch folds fetched metadata into an edit patch. Fetched fields always
// overwrite the stored ones, except the title which is only filled in when
// the stored title is empty.
func mergePatch(rec *domain.Recommendation, meta metadata.Metadata) domain.Patch {
	patch := domain.Patch{
		Excerpt:           domain.Set(meta.Excerpt),
		FeaturedImage:     domain.Set(meta.FeaturedImage),
		Favicon:           domain.Set(meta.Favicon),
		OneClickSubscribe: domain.Set(meta.OneClickSubscribe),
	}
	if meta.Title != nil && rec.Title == "" {
		patch.Title = domain.Set(*meta.Title)
	}
	return patch
}

// AddRecommendation validates, persists and announces a new recommendation.
// A URL equivalent to an existing recommendation is rejected.
func (s *Service) AddRecommendation(ctx context.Context, input domain.Plain) (domain.Plain, error) {
	existing, err := s.recs.GetByURL(ctx, input.URL)
	if err != nil {
		return domain.Plain{}, err
	}
	if existing != nil {
		return domain.Plain{}, &domain.ValidationError{Message: "A recommendation with this URL already exists."}
	}

	rec, err := domain.New(input)
	if err != nil {
		return domain.Plain{}, err
	}
	if err := s.recs.Save(ctx, rec); err != nil {
		return domain.Plain{}, err
	}

	s.afterWrite(ctx)

	// best effort, a failed outbound mention never fails the write
	if err := s.mentions.SendAll(ctx, s.wellknown.URL(), []*url.URL{rec.URL}); err != nil {
		lgr.Printf("[WARN] failed to send mention for %s: %v", rec.URL, err)
	}

	return rec.Plain(), nil
}

// EditRecommendation applies a patch to an existing recommendation
func (s *Service) EditRecommendation(ctx context.Context, id string, patch domain.Patch) (domain.Plain, error) {
	rec, err := s.recs.GetByID(ctx, id)
	if err != nil {
		return domain.Plain{}, err
	}
	if err := rec.Edit(patch); err != nil {
		return domain.Plain{}, err
	}
	if err := s.recs.Save(ctx, rec); err != nil {
		return domain.Plain{}, err
	}

	s.afterWrite(ctx)
	return rec.Plain(), nil
}

// DeleteRecommendation soft-deletes a recommendation
func (s *Service) DeleteRecommendation(ctx context.Context, id string) error {
	rec, err := s.recs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rec.Delete()
	if err := s.recs.Save(ctx, rec); err != nil {
		return err
	}

	s.afterWrite(ctx)
	return nil
}

// CheckRecommendation previews what adding the URL would look like, nothing
// is persisted. For a known URL the stored record is returned with freshly
// fetched metadata merged in, an unknown URL yields a draft built from the
// fetch alone.
func (s *Service) CheckRecommendation(ctx context.Context, target *url.URL) (domain.Plain, error) {
	existing, err := s.recs.GetByURL(ctx, target)
	if err != nil {
		return domain.Plain{}, err
	}

	if existing != nil {
		meta := s.fetcher.Fetch(ctx, existing.URL)
		if meta == (metadata.Metadata{}) {
			return existing.Plain(), nil
		}
		preview := domain.Hydrate(existing.Plain(), false)
		if err := preview.Edit(mergePatch(existing, meta)); err != nil {
			// merged metadata would not validate, keep the stored record
			lgr.Printf("[WARN] metadata for %s rejected: %v", existing.URL, err)
			return existing.Plain(), nil
		}
		return preview.Plain(), nil
	}

	meta := s.fetcher.Fetch(ctx, target)
	draft := domain.Plain{URL: target, OneClickSubscribe: meta.OneClickSubscribe}
	if meta.Title != nil {
		draft.Title = *meta.Title
	}
	draft.Excerpt = meta.Excerpt
	draft.FeaturedImage = meta.FeaturedImage
	draft.Favicon = meta.Favicon
	return draft, nil
}

// ReadRecommendation returns the plain projection by id
func (s *Service) ReadRecommendation(ctx context.Context, id string) (domain.Plain, error) {
	rec, err := s.recs.GetByID(ctx, id)
	if err != nil {
		return domain.Plain{}, err
	}
	return rec.Plain(), nil
}

// ReadRecommendationByURL returns the recommendation matching the URL's
// host and path, nil when there is none
func (s *Service) ReadRecommendationByURL(ctx context.Context, target *url.URL) (*domain.Plain, error) {
	rec, err := s.recs.GetByURL(ctx, target)
	if err != nil || rec == nil {
		return nil, err
	}
	plain := rec.Plain()
	return &plain, nil
}

// ListRecommendations returns one page of plain projections
func (s *Service) ListRecommendations(ctx context.Context, opts store.Options) ([]domain.Plain, error) {
	recommendations, err := s.recs.GetPage(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Plain, 0, len(recommendations))
	for _, rec := range recommendations {
		result = append(result, rec.Plain())
	}
	return result, nil
}

// CountRecommendations returns the number of recommendations matching the filter
func (s *Service) CountRecommendations(ctx context.Context, opts store.Options) (int, error) {
	return s.recs.GetCount(ctx, opts)
}

// GroupedCount returns per-group counts for the given field
func (s *Service) GroupedCount(ctx context.Context, groupBy string, opts store.Options) ([]store.GroupCount, error) {
	return s.recs.GetGroupedCount(ctx, groupBy, opts)
}

// TrackClicked records a click, the member is optional
func (s *Service) TrackClicked(ctx context.Context, id string, memberID *string) error {
	return s.clicks.Save(ctx, domain.NewClickEvent(id, memberID))
}

// TrackSubscribed records a subscription attributed to a recommendation,
// the member is required
func (s *Service) TrackSubscribed(ctx context.Context, id, memberID string) error {
	ev, err := domain.NewSubscribeEvent(id, memberID)
	if err != nil {
		return err
	}
	return s.subscribes.Save(ctx, ev)
}

// afterWrite keeps derived state in sync after any successful write: the
// enabled setting reflects whether any recommendation is left and the
// discovery document is republished. Failures are logged, the write already
// succeeded.
func (s *Service) afterWrite(ctx context.Context) {
	count, err := s.recs.GetCount(ctx, store.Options{})
	if err != nil {
		lgr.Printf("[WARN] failed to count recommendations: %v", err)
	} else if err := s.settings.SetBool(ctx, store.SettingRecommendationsEnabled, count > 0); err != nil {
		lgr.Printf("[WARN] failed to update enabled setting: %v", err)
	}

	if err := s.publishWellknown(ctx); err != nil {
		lgr.Printf("[WARN] failed to publish wellknown document: %v", err)
	}
}

// publishWellknown writes the discovery document from the current set
func (s *Service) publishWellknown(ctx context.Context) error {
	recommendations, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	return s.wellknown.Set(recommendations)
}

// ListAll returns every visible recommendation in default order
func (s *Service) ListAll(ctx context.Context) ([]domain.Plain, error) {
	recommendations, err := s.recs.GetAll(ctx, store.Options{})
	if err != nil {
		return nil, err
	}
	result := make([]domain.Plain, 0, len(recommendations))
	for _, rec := range recommendations {
		result = append(result, rec.Plain())
	}
	return result, nil
}
