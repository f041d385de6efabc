package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"lifelog/internal/clock"
	apperrors "lifelog/internal/errors"
	"lifelog/internal/model"
	"lifelog/internal/repository"
)

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]model.Activity, int64, error) {
	args := m.Called(ctx, userID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) FindForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Activity, error) {
	args := m.Called(ctx, userID, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindInRange(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]model.Activity, error) {
	args := m.Called(ctx, userID, start, end, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func (m *MockActivityRepository) SumDurationByTitle(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]repository.TitleDuration, error) {
	args := m.Called(ctx, userID, start, end, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TitleDuration), args.Error(1)
}

func (m *MockActivityRepository) CountTitles(ctx context.Context, userID uuid.UUID, query string, limit int) ([]repository.TitleCount, error) {
	args := m.Called(ctx, userID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TitleCount), args.Error(1)
}

func fixedClock(t time.Time) clock.Clock {
	return clock.Fixed{T: t}
}

func TestActivityService_Create(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)
	explicit := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name              string
		input             CreateActivityInput
		expectedTimestamp time.Time
	}{
		{
			name:              "timestamp defaults to clock now",
			input:             CreateActivityInput{Title: "Reading", Duration: 60},
			expectedTimestamp: now,
		},
		{
			name:              "explicit timestamp preserved",
			input:             CreateActivityInput{Title: "Running", Duration: 45, Timestamp: &explicit},
			expectedTimestamp: explicit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockActivityRepository)
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Activity")).Return(nil)

			service := NewActivityService(mockRepo, nil, fixedClock(now))
			activity, err := service.Create(context.Background(), userID, tt.input)

			assert.NoError(t, err)
			assert.Equal(t, userID, activity.UserID)
			assert.Equal(t, tt.input.Title, activity.Title)
			assert.Equal(t, tt.expectedTimestamp, activity.Timestamp)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestActivityService_GetOne_Ownership(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	activityID := uuid.New()

	tests := []struct {
		name          string
		requesterID   uuid.UUID
		setupMock     func(*MockActivityRepository)
		expectedError error
	}{
		{
			name:        "owner gets the activity",
			requesterID: owner,
			setupMock: func(m *MockActivityRepository) {
				m.On("FindByID", mock.Anything, activityID).Return(&model.Activity{
					ID:     activityID,
					UserID: owner,
					Title:  "Reading",
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:        "missing record fails not found",
			requesterID: owner,
			setupMock: func(m *MockActivityRepository) {
				m.On("FindByID", mock.Anything, activityID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrActivityNotFound,
		},
		{
			name:        "someone else's record fails access denied",
			requesterID: stranger,
			setupMock: func(m *MockActivityRepository) {
				m.On("FindByID", mock.Anything, activityID).Return(&model.Activity{
					ID:     activityID,
					UserID: owner,
					Title:  "Reading",
				}, nil)
			},
			expectedError: apperrors.ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockActivityRepository)
			tt.setupMock(mockRepo)

			service := NewActivityService(mockRepo, nil, fixedClock(time.Now()))
			activity, err := service.GetOne(context.Background(), activityID, tt.requesterID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, activity)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, activity)
				assert.Equal(t, activityID, activity.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestActivityService_Update_PartialFields(t *testing.T) {
	owner := uuid.New()
	activityID := uuid.New()
	original := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)

	newTitle := "Deep reading"
	emptyDescription := ""
	newDuration := 90

	tests := []struct {
		name   string
		input  UpdateActivityInput
		verify func(t *testing.T, updated *model.Activity)
	}{
		{
			name:  "only title changes",
			input: UpdateActivityInput{Title: &newTitle},
			verify: func(t *testing.T, updated *model.Activity) {
				assert.Equal(t, "Deep reading", updated.Title)
				assert.Equal(t, "Technical books", updated.Description)
				assert.Equal(t, 60, updated.Duration)
				assert.Equal(t, original, updated.Timestamp)
			},
		},
		{
			name:  "description can be set to empty string",
			input: UpdateActivityInput{Description: &emptyDescription},
			verify: func(t *testing.T, updated *model.Activity) {
				assert.Equal(t, "Reading", updated.Title)
				assert.Equal(t, "", updated.Description)
				assert.Equal(t, 60, updated.Duration)
			},
		},
		{
			name:  "absent fields stay untouched",
			input: UpdateActivityInput{Duration: &newDuration},
			verify: func(t *testing.T, updated *model.Activity) {
				assert.Equal(t, "Reading", updated.Title)
				assert.Equal(t, "Technical books", updated.Description)
				assert.Equal(t, 90, updated.Duration)
				assert.Equal(t, original, updated.Timestamp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockActivityRepository)
			mockRepo.On("FindByID", mock.Anything, activityID).Return(&model.Activity{
				ID:          activityID,
				UserID:      owner,
				Title:       "Reading",
				Description: "Technical books",
				Duration:    60,
				Timestamp:   original,
			}, nil)

			var captured *model.Activity
			mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Activity")).
				Run(func(args mock.Arguments) {
					captured = args.Get(1).(*model.Activity)
				}).
				Return(nil)

			service := NewActivityService(mockRepo, nil, fixedClock(time.Now()))
			_, err := service.Update(context.Background(), activityID, owner, tt.input)

			assert.NoError(t, err)
			assert.NotNil(t, captured)
			tt.verify(t, captured)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestActivityService_Delete(t *testing.T) {
	owner := uuid.New()
	activityID := uuid.New()

	mockRepo := new(MockActivityRepository)
	mockRepo.On("FindByID", mock.Anything, activityID).Return(&model.Activity{
		ID:     activityID,
		UserID: owner,
	}, nil)
	mockRepo.On("Delete", mock.Anything, activityID).Return(nil)

	service := NewActivityService(mockRepo, nil, fixedClock(time.Now()))
	result, err := service.Delete(context.Background(), activityID, owner)

	assert.NoError(t, err)
	assert.Equal(t, activityID, result.ID)
	assert.Equal(t, "Activity deleted successfully", result.Message)

	mockRepo.AssertExpectations(t)
}

func TestActivityService_TodayActivities_Bounds(t *testing.T) {
	userID := uuid.New()
	// 22:30 local: the day window must still be [midnight, next midnight).
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2025, 7, 15, 22, 30, 0, 0, loc)

	expectedStart := time.Date(2025, 7, 15, 0, 0, 0, 0, loc)
	expectedEnd := time.Date(2025, 7, 16, 0, 0, 0, 0, loc)

	mockRepo := new(MockActivityRepository)
	mockRepo.On("FindForDay", mock.Anything, userID, expectedStart, expectedEnd).
		Return([]model.Activity{}, nil)

	service := NewActivityService(mockRepo, nil, fixedClock(now))
	_, err := service.TodayActivities(context.Background(), userID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestActivityService_TitleSuggestions_Limit(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockActivityRepository)
	mockRepo.On("CountTitles", mock.Anything, userID, "read", MaxSuggestions).
		Return([]repository.TitleCount{
			{Title: "Reading", Count: 12},
			{Title: "Proofreading", Count: 3},
		}, nil)

	service := NewActivityService(mockRepo, nil, fixedClock(time.Now()))
	suggestions, err := service.TitleSuggestions(context.Background(), userID, "read")

	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, "Reading", suggestions[0].Title)
	assert.GreaterOrEqual(t, suggestions[0].Count, suggestions[1].Count)

	mockRepo.AssertExpectations(t)
}
