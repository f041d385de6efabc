package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifelog/internal/cache"
	"lifelog/internal/clock"
	apperrors "lifelog/internal/errors"
	"lifelog/internal/model"
	"lifelog/internal/repository"
)

const (
	activityCacheTTL = 5 * time.Minute
	// DefaultListLimit is the page size when the client does not send one.
	DefaultListLimit = 50
	// MaxSuggestions caps the title suggestion list.
	MaxSuggestions = 10
)

// CreateActivityInput carries the fields for a new activity. A nil Timestamp
// means "now" per the injected clock.
type CreateActivityInput struct {
	Title       string
	Description string
	Duration    int
	Timestamp   *time.Time
}

// UpdateActivityInput carries a partial update. Nil pointers mean the field
// was absent from the request and must be left untouched.
type UpdateActivityInput struct {
	Title       *string
	Description *string
	Duration    *int
	Timestamp   *time.Time
}

// DeleteActivityResult confirms a deletion.
type DeleteActivityResult struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// ActivityService handles activity journal operations.
type ActivityService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateActivityInput) (*model.Activity, error)
	List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]model.Activity, int64, error)
	GetOne(ctx context.Context, id, userID uuid.UUID) (*model.Activity, error)
	Update(ctx context.Context, id, userID uuid.UUID, input UpdateActivityInput) (*model.Activity, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (*DeleteActivityResult, error)
	TodayActivities(ctx context.Context, userID uuid.UUID) ([]model.Activity, error)
	TitleSuggestions(ctx context.Context, userID uuid.UUID, query string) ([]repository.TitleCount, error)
}

type activityService struct {
	repo  repository.ActivityRepository
	cache *cache.Client
	clk   clock.Clock
}

// NewActivityService creates a new activity service.
func NewActivityService(repo repository.ActivityRepository, cache *cache.Client, clk clock.Clock) ActivityService {
	return &activityService{
		repo:  repo,
		cache: cache,
		clk:   clk,
	}
}

func activityCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("activity:%s", id.String())
}

// Create persists a new activity. Timestamp defaults to the current time.
func (s *activityService) Create(ctx context.Context, userID uuid.UUID, input CreateActivityInput) (*model.Activity, error) {
	timestamp := s.clk.Now()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	activity := &model.Activity{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
		Timestamp:   timestamp,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

// List returns a page of the user's activities plus the total match count.
func (s *activityService) List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]model.Activity, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, search, limit, offset)
}

// GetOne fetches an activity by ID and enforces ownership: a missing record
// fails with not found, someone else's record with access denied.
func (s *activityService) GetOne(ctx context.Context, id, userID uuid.UUID) (*model.Activity, error) {
	activity, err := s.cachedFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.UserID != userID {
		return nil, apperrors.ErrAccessDenied
	}
	return activity, nil
}

func (s *activityService) cachedFind(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	if data, _ := s.cache.Get(ctx, activityCacheKey(id)); data != nil {
		var cached model.Activity
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}

	if payload, err := json.Marshal(activity); err == nil {
		_ = s.cache.Set(ctx, activityCacheKey(id), payload, activityCacheTTL)
	}
	return activity, nil
}

// Update applies only the fields present in the input after the ownership check.
func (s *activityService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateActivityInput) (*model.Activity, error) {
	activity, err := s.GetOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		activity.Title = *input.Title
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Duration != nil {
		activity.Duration = *input.Duration
	}
	if input.Timestamp != nil {
		activity.Timestamp = *input.Timestamp
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	_ = s.cache.Delete(ctx, activityCacheKey(id))

	return activity, nil
}

// Delete removes an activity after the ownership check.
func (s *activityService) Delete(ctx context.Context, id, userID uuid.UUID) (*DeleteActivityResult, error) {
	if _, err := s.GetOne(ctx, id, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete activity: %w", err)
	}
	_ = s.cache.Delete(ctx, activityCacheKey(id))

	return &DeleteActivityResult{
		Message: "Activity deleted successfully",
		ID:      id,
	}, nil
}

// TodayActivities returns activities between local midnight today and local
// midnight tomorrow, newest first.
func (s *activityService) TodayActivities(ctx context.Context, userID uuid.UUID) ([]model.Activity, error) {
	now := s.clk.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.repo.FindForDay(ctx, userID, dayStart, dayEnd)
}

// TitleSuggestions returns up to ten distinct titles ranked by frequency.
func (s *activityService) TitleSuggestions(ctx context.Context, userID uuid.UUID, query string) ([]repository.TitleCount, error) {
	return s.repo.CountTitles(ctx, userID, query, MaxSuggestions)
}
