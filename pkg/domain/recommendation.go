package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLength       = 2000
	maxDescriptionLength = 200
	maxExcerptLength     = 2000
)

// Recommendation is the aggregate for a single outbound recommendation.
// It is created through New, loaded from storage through Hydrate and mutated
// only through Edit and Delete.
type Recommendation struct {
	ID                string
	Title             string
	Description       *string
	Excerpt           *string
	FeaturedImage     *url.URL
	Favicon           *url.URL
	URL               *url.URL
	OneClickSubscribe bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	Deleted           bool

	// derived counts, populated by the store when requested, never persisted
	ClickCount      *int
	SubscriberCount *int
}

// Plain is the value projection of a Recommendation handed to external callers,
// a Recommendation itself never leaves the service layer
type Plain struct {
	ID                string
	Title             string
	Description       *string
	Excerpt           *string
	FeaturedImage     *url.URL
	Favicon           *url.URL
	URL               *url.URL
	OneClickSubscribe bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	ClickCount        *int
	SubscriberCount   *int
}

// Patch carries the mutable fields of an edit request. Fields left unset are
// not touched, unknown wire fields never make it into a Patch.
type Patch struct {
	Title             Optional[string]
	Description       Optional[*string]
	Excerpt           Optional[*string]
	FeaturedImage     Optional[*url.URL]
	Favicon           Optional[*url.URL]
	URL               Optional[*url.URL]
	OneClickSubscribe Optional[bool]
}

// Validate checks the invariants every persisted recommendation must hold
func Validate(p Plain) error {
	if p.Title == "" {
		return &ValidationError{Message: "Title must not be empty"}
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLength {
		return &ValidationError{Message: fmt.Sprintf("Title must be less than %d characters", maxTitleLength)}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > maxDescriptionLength {
		return &ValidationError{Message: fmt.Sprintf("Description must be less than %d characters", maxDescriptionLength)}
	}
	if p.URL == nil {
		return &ValidationError{Message: "URL must not be empty"}
	}
	return nil
}

// New builds a validated recommendation from untrusted input. It normalizes
// the input, assigns an id and creation time when missing and rejects invalid
// data with a ValidationError.
func New(p Plain) (*Recommendation, error) {
	clean(&p)
	if err := Validate(p); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().Truncate(time.Second)
	}

	return Hydrate(p, false), nil
}

// Hydrate rebuilds an aggregate from already persisted data, skipping
// validation. Storage backends use it when mapping rows back to the domain.
func Hydrate(p Plain, deleted bool) *Recommendation {
	return &Recommendation{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Excerpt:           p.Excerpt,
		FeaturedImage:     cloneURL(p.FeaturedImage),
		Favicon:           cloneURL(p.Favicon),
		URL:               cloneURL(p.URL),
		OneClickSubscribe: p.OneClickSubscribe,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         cloneTime(p.UpdatedAt),
		Deleted:           deleted,
		ClickCount:        cloneInt(p.ClickCount),
		SubscriberCount:   cloneInt(p.SubscriberCount),
	}
}

// Plain returns the value projection of the recommendation
func (r *Recommendation) Plain() Plain {
	return Plain{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Excerpt:           r.Excerpt,
		FeaturedImage:     cloneURL(r.FeaturedImage),
		Favicon:           cloneURL(r.Favicon),
		URL:               cloneURL(r.URL),
		OneClickSubscribe: r.OneClickSubscribe,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         cloneTime(r.UpdatedAt),
		ClickCount:        cloneInt(r.ClickCount),
		SubscriberCount:   cloneInt(r.SubscriberCount),
	}
}

// Edit applies a whitelisted patch. The whole patch is validated first; when
// at least one field actually changes, all supplied fields are applied and
// UpdatedAt is bumped, a no-op patch leaves UpdatedAt untouched.
func (r *Recommendation) Edit(patch Patch) error {
	next := r.Plain()
	if v, ok := patch.Title.Get(); ok {
		next.Title = v
	}
	if v, ok := patch.Description.Get(); ok {
		next.Description = v
	}
	if v, ok := patch.Excerpt.Get(); ok {
		next.Excerpt = v
	}
	if v, ok := patch.FeaturedImage.Get(); ok {
		next.FeaturedImage = v
	}
	if v, ok := patch.Favicon.Get(); ok {
		next.Favicon = v
	}
	if v, ok := patch.URL.Get(); ok {
		next.URL = v
	}
	if v, ok := patch.OneClickSubscribe.Get(); ok {
		next.OneClickSubscribe = v
	}

	clean(&next)
	if err := Validate(next); err != nil {
		return err
	}

	if !r.changed(next) {
		return nil
	}

	r.Title = next.Title
	r.Description = next.Description
	r.Excerpt = next.Excerpt
	r.FeaturedImage = cloneURL(next.FeaturedImage)
	r.Favicon = cloneURL(next.Favicon)
	r.URL = cloneURL(next.URL)
	r.OneClickSubscribe = next.OneClickSubscribe

	now := time.Now().Truncate(time.Second)
	r.UpdatedAt = &now
	return nil
}

// Delete marks the recommendation invisible to reads
func (r *Recommendation) Delete() {
	r.Deleted = true
}

// changed reports whether any mutable field differs from the candidate state
func (r *Recommendation) changed(next Plain) bool {
	switch {
	case r.Title != next.Title:
		return true
	case !equalStringPtr(r.Description, next.Description):
		return true
	case !equalStringPtr(r.Excerpt, next.Excerpt):
		return true
	case !equalURL(r.FeaturedImage, next.FeaturedImage):
		return true
	case !equalURL(r.Favicon, next.Favicon):
		return true
	case !equalURL(r.URL, next.URL):
		return true
	case r.OneClickSubscribe != next.OneClickSubscribe:
		return true
	}
	return false
}

// URLKey normalizes a URL to its duplicate-detection key: lowercased hostname
// without a leading "www." plus the path. Query, fragment and port are ignored.
func URLKey(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host + u.Path
}

// clean normalizes input the way create and edit both expect it: timestamps
// truncated to whole seconds, empty description and excerpt coerced to nil and
// over-long excerpts truncated. Query and fragment of the URL are preserved.
func clean(p *Plain) {
	p.CreatedAt = p.CreatedAt.Truncate(time.Second)
	if p.UpdatedAt != nil {
		t := p.UpdatedAt.Truncate(time.Second)
		p.UpdatedAt = &t
	}
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}
	if p.Excerpt != nil && *p.Excerpt == "" {
		p.Excerpt = nil
	}
	if p.Excerpt != nil && utf8.RuneCountInString(*p.Excerpt) > maxExcerptLength {
		truncated := string([]rune(*p.Excerpt)[:maxExcerptLength])
		p.Excerpt = &truncated
	}
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalURL(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}
