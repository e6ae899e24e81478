package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// WellknownPath is the fixed relative location of the discovery document
const WellknownPath = ".well-known/recommendations.json"

// wellknownTimeFormat matches the millisecond-precision UTC timestamps the
// document is expected to carry
const wellknownTimeFormat = "2006-01-02T15:04:05.000Z"

// Wellknown publishes the outbound recommendation set as a discovery document
// under the site's public directory, so third parties can detect reciprocal
// recommendations.
type Wellknown struct {
	dir     string
	siteURL *url.URL
}

// NewWellknown creates a publisher writing under dir, siteURL is the absolute
// base the document is served from
func NewWellknown(dir string, siteURL *url.URL) *Wellknown {
	return &Wellknown{dir: dir, siteURL: siteURL}
}

type wellknownEntry struct {
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Set writes the discovery document for the given recommendations, replacing
// any previous content
func (w *Wellknown) Set(recommendations []domain.Plain) error {
	entries := make([]wellknownEntry, 0, len(recommendations))
	for _, rec := range recommendations {
		updatedAt := rec.CreatedAt
		if rec.UpdatedAt != nil {
			updatedAt = *rec.UpdatedAt
		}
		entries = append(entries, wellknownEntry{
			URL:       rec.URL.String(),
			CreatedAt: rec.CreatedAt.UTC().Format(wellknownTimeFormat),
			UpdatedAt: updatedAt.UTC().Format(wellknownTimeFormat),
		})
	}

	content, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal wellknown document: %w", err)
	}

	target := filepath.Join(w.dir, filepath.FromSlash(WellknownPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create wellknown directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil { //nolint:gosec // served publicly
		return fmt.Errorf("write wellknown document: %w", err)
	}
	return nil
}

// URL returns the absolute location of the document
func (w *Wellknown) URL() *url.URL {
	return w.siteURL.JoinPath(WellknownPath)
}
