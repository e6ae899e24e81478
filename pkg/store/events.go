package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// eventColumns maps caller-facing event field names to columns
var eventColumns = map[string]string{
	"id":               "id",
	"recommendationId": "recommendation_id",
	"memberId":         "member_id",
	"createdAt":        "created_at",
}

// ClickEvents is the append-only store for recommendation click events
type ClickEvents struct {
	db    *sqlx.DB
	table string
}

// NewClickEvents creates the click event store
func NewClickEvents(database *sqlx.DB) *ClickEvents {
	return &ClickEvents{db: database, table: "recommendation_click_events"}
}

// clickEventSQL represents a click event row for SQL operations
type clickEventSQL struct {
	ID               string    `db:"id"`
	RecommendationID string    `db:"recommendation_id"`
	MemberID         *string   `db:"member_id"`
	CreatedAt        time.Time `db:"created_at"`
}

// Save appends a click event, events are never mutated afterwards
func (s *ClickEvents) Save(ctx context.Context, ev domain.ClickEvent) error {
	row := clickEventSQL{ID: ev.ID, RecommendationID: ev.RecommendationID, MemberID: ev.MemberID, CreatedAt: ev.CreatedAt}
	return newRetrier().Do(ctx, func() error {
		query := `INSERT INTO recommendation_click_events (id, recommendation_id, member_id, created_at)
			VALUES (:id, :recommendation_id, :member_id, :created_at)`
		if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save click event: %w", err)}
		}
		return nil
	})
}

// GetCount counts click events matching the filter
func (s *ClickEvents) GetCount(ctx context.Context, opts Options) (int, error) {
	return countEvents(ctx, s.db, s.table, opts)
}

// GetGroupedCount counts click events bucketed by the given field
func (s *ClickEvents) GetGroupedCount(ctx context.Context, groupBy string, opts Options) ([]GroupCount, error) {
	return groupEvents(ctx, s.db, s.table, groupBy, opts)
}

// SubscribeEvents is the append-only store for recommendation subscribe events
type SubscribeEvents struct {
	db    *sqlx.DB
	table string
}

// NewSubscribeEvents creates the subscribe event store
func NewSubscribeEvents(database *sqlx.DB) *SubscribeEvents {
	return &SubscribeEvents{db: database, table: "recommendation_subscribe_events"}
}

// subscribeEventSQL represents a subscribe event row for SQL operations
type subscribeEventSQL struct {
	ID               string    `db:"id"`
	RecommendationID string    `db:"recommendation_id"`
	MemberID         string    `db:"member_id"`
	CreatedAt        time.Time `db:"created_at"`
}

// Save appends a subscribe event
func (s *SubscribeEvents) Save(ctx context.Context, ev domain.SubscribeEvent) error {
	row := subscribeEventSQL{ID: ev.ID, RecommendationID: ev.RecommendationID, MemberID: ev.MemberID, CreatedAt: ev.CreatedAt}
	return newRetrier().Do(ctx, func() error {
		query := `INSERT INTO recommendation_subscribe_events (id, recommendation_id, member_id, created_at)
			VALUES (:id, :recommendation_id, :member_id, :created_at)`
		if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save subscribe event: %w", err)}
		}
		return nil
	})
}

// GetCount counts subscribe events matching the filter
func (s *SubscribeEvents) GetCount(ctx context.Context, opts Options) (int, error) {
	return countEvents(ctx, s.db, s.table, opts)
}

// GetGroupedCount counts subscribe events bucketed by the given field
func (s *SubscribeEvents) GetGroupedCount(ctx context.Context, groupBy string, opts Options) ([]GroupCount, error) {
	return groupEvents(ctx, s.db, s.table, groupBy, opts)
}

func countEvents(ctx context.Context, db *sqlx.DB, table string, opts Options) (int, error) {
	where, args, err := eventWhere(opts)
	if err != nil {
		return 0, err
	}

	var count int
	query := "SELECT COUNT(*) FROM " + table + where
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count events in %s: %w", table, err)
	}
	return count, nil
}

func groupEvents(ctx context.Context, db *sqlx.DB, table, groupBy string, opts Options) ([]GroupCount, error) {
	column, ok := eventColumns[groupBy]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Cannot group by %s", groupBy)}
	}

	where, args, err := eventWhere(opts)
	if err != nil {
		return nil, err
	}

	var groups []GroupCount
	query := fmt.Sprintf("SELECT COALESCE(CAST(%s AS TEXT), '') AS group_value, COUNT(*) AS cnt FROM %s%s GROUP BY %s ORDER BY group_value",
		column, table, where, column)
	if err := db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("grouped count in %s: %w", table, err)
	}
	return groups, nil
}

func eventWhere(opts Options) (string, []any, error) {
	filter, err := ParseFilter(opts.Filter)
	if err != nil {
		return "", nil, err
	}

	clause, args, err := filter.SQL(eventColumns)
	if err != nil {
		return "", nil, err
	}
	if clause == "" {
		return "", nil, nil
	}
	return " WHERE " + clause, args, nil
}
