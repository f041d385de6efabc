package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifelog/internal/model"
)

// TitleCount is a distinct activity title with its occurrence count.
type TitleCount struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

// TitleDuration is a distinct activity title with its summed duration in minutes.
type TitleDuration struct {
	Title         string
	TotalDuration int64
}

// ActivityRepository defines activity persistence operations.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	Update(ctx context.Context, activity *model.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	// ListByUser returns a page of the user's activities newest first,
	// plus the total match count for pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]model.Activity, int64, error)
	// FindForDay returns activities with timestamp in [dayStart, dayEnd), newest first.
	FindForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Activity, error)
	// FindInRange returns activities with timestamp in [start, end] inclusive,
	// oldest first, honoring the keyword search predicate.
	FindInRange(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]model.Activity, error)
	// SumDurationByTitle sums duration per title over [start, end] inclusive,
	// ordered by summed duration descending.
	SumDurationByTitle(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]TitleDuration, error)
	// CountTitles returns up to limit distinct titles ranked by frequency,
	// optionally filtered to titles containing query (case-insensitive).
	CountTitles(ctx context.Context, userID uuid.UUID, query string, limit int) ([]TitleCount, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Activity{}, "id = ?", id).Error
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]model.Activity, int64, error) {
	// Fresh chain per statement; gorm clauses are sticky across Count/Find.
	base := func() *gorm.DB {
		return applySearch(r.db.WithContext(ctx).Model(&model.Activity{}).Where("user_id = ?", userID), search)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []model.Activity
	if err := base().Order("timestamp DESC").Limit(limit).Offset(offset).Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *activityRepository) FindForDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, dayStart, dayEnd).
		Order("timestamp DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) FindInRange(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]model.Activity, error) {
	q := applySearch(r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, start, end), search)

	var activities []model.Activity
	if err := q.Order("timestamp ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) SumDurationByTitle(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) ([]TitleDuration, error) {
	q := applySearch(r.db.WithContext(ctx).Model(&model.Activity{}).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, start, end), search)

	var results []TitleDuration
	err := q.Select("title, SUM(duration) AS total_duration").
		Group("title").
		Order("total_duration DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityRepository) CountTitles(ctx context.Context, userID uuid.UUID, query string, limit int) ([]TitleCount, error) {
	q := r.db.WithContext(ctx).Model(&model.Activity{}).Where("user_id = ?", userID)
	if query != "" {
		q = q.Where("LOWER(title) LIKE ?", likePattern(query))
	}

	var results []TitleCount
	err := q.Select("title, COUNT(*) AS count").
		Group("title").
		Order("count DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// applySearch adds the keyword predicate shared by listing and insights
// queries: the search string is split on whitespace and every keyword must
// match title or description as a case-insensitive substring. Keywords are
// conjunctive, the two fields disjunctive.
func applySearch(q *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	for _, keyword := range strings.Fields(search) {
		p := likePattern(keyword)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	return q
}

func likePattern(keyword string) string {
	return "%" + strings.ToLower(keyword) + "%"
}
