package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// Recommendations is the persistent recommendation store. It satisfies the
// same filter, order and pagination contract as the in-memory twin, but
// translates filters to SQL through a field-to-column map, and additionally
// supports the derived clickCount/subscriberCount fields as query fragments.
type Recommendations struct {
	db *sqlx.DB
}

// NewRecommendations creates the persistent recommendation store
func NewRecommendations(database *sqlx.DB) *Recommendations {
	return &Recommendations{db: database}
}

// recommendationSQL represents a recommendation row for SQL operations
type recommendationSQL struct {
	ID                string     `db:"id"`
	Title             string     `db:"title"`
	Description       *string    `db:"description"`
	Excerpt           *string    `db:"excerpt"`
	FeaturedImage     *string    `db:"featured_image"`
	Favicon           *string    `db:"favicon"`
	URL               string     `db:"url"`
	URLKey            string     `db:"url_key"`
	OneClickSubscribe bool       `db:"one_click_subscribe"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`
	Deleted           bool       `db:"deleted"`
	ClickCount        *int       `db:"click_count"`
	SubscriberCount   *int       `db:"subscriber_count"`
}

// derived fields are correlated sub-selects, usable in filter and order
const (
	clickCountExpr      = "(SELECT COUNT(*) FROM recommendation_click_events e WHERE e.recommendation_id = recommendations.id)"
	subscriberCountExpr = "(SELECT COUNT(*) FROM recommendation_subscribe_events e WHERE e.recommendation_id = recommendations.id)"
)

// recommendationColumns maps caller-facing field names to columns or fragments
var recommendationColumns = map[string]string{
	"id":                "id",
	"title":             "title",
	"description":       "description",
	"excerpt":           "excerpt",
	"featuredImage":     "featured_image",
	"favicon":           "favicon",
	"url":               "url",
	"oneClickSubscribe": "one_click_subscribe",
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
	"clickCount":        clickCountExpr,
	"subscriberCount":   subscriberCountExpr,
}

// Save upserts a recommendation by id. A recommendation saved with the deleted
// flag set disappears from all reads.
func (r *Recommendations) Save(ctx context.Context, rec *domain.Recommendation) error {
	row := recommendationSQL{
		ID:                rec.ID,
		Title:             rec.Title,
		Description:       rec.Description,
		Excerpt:           rec.Excerpt,
		FeaturedImage:     urlString(rec.FeaturedImage),
		Favicon:           urlString(rec.Favicon),
		URL:               rec.URL.String(),
		URLKey:            domain.URLKey(rec.URL),
		OneClickSubscribe: rec.OneClickSubscribe,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
		Deleted:           rec.Deleted,
	}

	return newRetrier().Do(ctx, func() error {
		query := `
			INSERT INTO recommendations (
				id, title, description, excerpt, featured_image, favicon,
				url, url_key, one_click_subscribe, created_at, updated_at, deleted
			) VALUES (
				:id, :title, :description, :excerpt, :featured_image, :favicon,
				:url, :url_key, :one_click_subscribe, :created_at, :updated_at, :deleted
			)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				excerpt = excluded.excerpt,
				featured_image = excluded.featured_image,
				favicon = excluded.favicon,
				url = excluded.url,
				url_key = excluded.url_key,
				one_click_subscribe = excluded.one_click_subscribe,
				updated_at = excluded.updated_at,
				deleted = excluded.deleted
		`
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save recommendation: %w", err)}
		}
		return nil
	})
}

// GetByID retrieves a recommendation, soft-deleted ones are not found
func (r *Recommendations) GetByID(ctx context.Context, id string) (*domain.Recommendation, error) {
	var row recommendationSQL
	query := r.selectClause(nil) + " WHERE id = ? AND deleted = 0"
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("Recommendation with id %s not found", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	return r.toDomain(&row)
}

// GetByURL retrieves a recommendation whose URL shares host and path with the
// given one, nil when no equivalent recommendation exists
func (r *Recommendations) GetByURL(ctx context.Context, u *url.URL) (*domain.Recommendation, error) {
	var row recommendationSQL
	query := r.selectClause(nil) + " WHERE url_key = ? AND deleted = 0"
	err := r.db.GetContext(ctx, &row, query, domain.URLKey(u))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation by url: %w", err)
	}
	return r.toDomain(&row)
}

// GetAll returns all visible recommendations matching filter and order
func (r *Recommendations) GetAll(ctx context.Context, opts Options) ([]*domain.Recommendation, error) {
	return r.selectMany(ctx, opts, false)
}

// GetPage returns one page, it fails when page or limit is below 1
func (r *Recommendations) GetPage(ctx context.Context, opts Options) ([]*domain.Recommendation, error) {
	if err := opts.validatePage(); err != nil {
		return nil, err
	}
	return r.selectMany(ctx, opts, true)
}

// GetCount counts visible recommendations matching the filter
func (r *Recommendations) GetCount(ctx context.Context, opts Options) (int, error) {
	where, args, err := r.whereClause(opts)
	if err != nil {
		return 0, err
	}

	var count int
	query := "SELECT COUNT(*) FROM recommendations " + where
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return count, nil
}

// GetGroupedCount counts visible recommendations bucketed by the given field
func (r *Recommendations) GetGroupedCount(ctx context.Context, groupBy string, opts Options) ([]GroupCount, error) {
	column, ok := recommendationColumns[groupBy]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Cannot group by %s", groupBy)}
	}

	where, args, err := r.whereClause(opts)
	if err != nil {
		return nil, err
	}

	var groups []GroupCount
	query := fmt.Sprintf("SELECT COALESCE(CAST(%s AS TEXT), '') AS group_value, COUNT(*) AS cnt FROM recommendations %s GROUP BY %s ORDER BY group_value",
		column, where, column)
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("grouped count recommendations: %w", err)
	}
	return groups, nil
}

// selectMany runs the shared filter/order pipeline, optionally paginated
func (r *Recommendations) selectMany(ctx context.Context, opts Options, paginate bool) ([]*domain.Recommendation, error) {
	where, args, err := r.whereClause(opts)
	if err != nil {
		return nil, err
	}

	orderBy, err := r.orderClause(opts.Order)
	if err != nil {
		return nil, err
	}

	query := r.selectClause(opts.Include) + " " + where + " " + orderBy
	if paginate {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	}

	var rows []recommendationSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recommendations: %w", err)
	}

	recs := make([]*domain.Recommendation, 0, len(rows))
	for i := range rows {
		rec, err := r.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// selectClause lists the stored columns plus the derived counts, the counts
// are only computed when requested through include
func (r *Recommendations) selectClause(include []string) string {
	clickCol, subscriberCol := "NULL", "NULL"
	for _, inc := range include {
		switch inc {
		case "clickCount":
			clickCol = clickCountExpr
		case "subscriberCount":
			subscriberCol = subscriberCountExpr
		}
	}
	return fmt.Sprintf(`SELECT id, title, description, excerpt, featured_image, favicon,
		url, url_key, one_click_subscribe, created_at, updated_at, deleted,
		%s AS click_count, %s AS subscriber_count FROM recommendations`, clickCol, subscriberCol)
}

func (r *Recommendations) whereClause(opts Options) (string, []any, error) {
	filter, err := ParseFilter(opts.Filter)
	if err != nil {
		return "", nil, err
	}

	clause, args, err := filter.SQL(recommendationColumns)
	if err != nil {
		return "", nil, err
	}

	where := "WHERE deleted = 0"
	if clause != "" {
		where += " AND " + clause
	}
	return where, args, nil
}

func (r *Recommendations) orderClause(order []Order) (string, error) {
	if len(order) == 0 {
		return "ORDER BY created_at, id", nil
	}

	parts := make([]string, 0, len(order))
	for _, o := range order {
		column, ok := recommendationColumns[o.Field]
		if !ok {
			return "", &domain.ValidationError{Message: fmt.Sprintf("Cannot order by %s", o.Field)}
		}
		dir := "ASC"
		if o.Direction == Desc {
			dir = "DESC"
		}
		parts = append(parts, column+" "+dir)
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// toDomain maps a row back to the aggregate
func (r *Recommendations) toDomain(row *recommendationSQL) (*domain.Recommendation, error) {
	u, err := url.Parse(row.URL)
	if err != nil {
		return nil, fmt.Errorf("parse stored url %q: %w", row.URL, err)
	}

	return domain.Hydrate(domain.Plain{
		ID:                row.ID,
		Title:             row.Title,
		Description:       row.Description,
		Excerpt:           row.Excerpt,
		FeaturedImage:     parseOptionalURL(row.FeaturedImage),
		Favicon:           parseOptionalURL(row.Favicon),
		URL:               u,
		OneClickSubscribe: row.OneClickSubscribe,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		ClickCount:        row.ClickCount,
		SubscriberCount:   row.SubscriberCount,
	}, row.Deleted), nil
}

func urlString(u *url.URL) *string {
	if u == nil {
		return nil
	}
	s := u.String()
	return &s
}

func parseOptionalURL(s *string) *url.URL {
	if s == nil || *s == "" {
		return nil
	}
	u, err := url.Parse(*s)
	if err != nil {
		return nil
	}
	return u
}
