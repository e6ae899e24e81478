package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClickEvent records a single click on a recommendation, append-only
type ClickEvent struct {
	ID               string
	RecommendationID string
	MemberID         *string // nil for anonymous visitors
	CreatedAt        time.Time
}

// NewClickEvent creates a click event for a recommendation, member is optional
func NewClickEvent(recommendationID string, memberID *string) ClickEvent {
	return ClickEvent{
		ID:               uuid.NewString(),
		RecommendationID: recommendationID,
		MemberID:         memberID,
		CreatedAt:        time.Now().Truncate(time.Second),
	}
}

// SubscribeEvent records a member subscribing through a recommendation, append-only
type SubscribeEvent struct {
	ID               string
	RecommendationID string
	MemberID         string
	CreatedAt        time.Time
}

// NewSubscribeEvent creates a subscribe event, the member is required
func NewSubscribeEvent(recommendationID, memberID string) (SubscribeEvent, error) {
	if memberID == "" {
		return SubscribeEvent{}, &ValidationError{Message: "Member id is required when tracking a subscribe event"}
	}
	return SubscribeEvent{
		ID:               uuid.NewString(),
		RecommendationID: recommendationID,
		MemberID:         memberID,
		CreatedAt:        time.Now().Truncate(time.Second),
	}, nil
}
