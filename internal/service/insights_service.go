package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"lifelog/internal/clock"
	apperrors "lifelog/internal/errors"
	"lifelog/internal/repository"
)

// Metric selectors accepted by the insights endpoint.
const (
	MetricTimePerTitle        = "timePerTitle"
	MetricTimePerTitleStacked = "timePerTitleStacked"
)

// Bucket intervals for the stacked metric.
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

const defaultRangeDays = 30

// InsightsQuery carries raw query parameters for an insights request.
// Start and End accept YYYY-MM-DD (midnight UTC) or RFC3339.
type InsightsQuery struct {
	Metric   string
	Start    string
	End      string
	Interval string
	Search   string
}

// DateRange reports the resolved query range as UTC calendar dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TitleTotal is one entry of the flat timePerTitle metric.
type TitleTotal struct {
	Name            string `json:"name"`
	DurationMinutes int64  `json:"durationMinutes"`
}

// TimePerTitleInsights is the flat metric response.
type TimePerTitleInsights struct {
	Metric    string       `json:"metric"`
	DateRange DateRange    `json:"date_range"`
	Data      []TitleTotal `json:"data"`
}

// StackedInsights is the stacked metric response. Each row maps the bucket
// field (date/week/month) to the bucket key plus one key per title seen in
// that bucket; titles absent from a bucket are omitted rather than zeroed.
type StackedInsights struct {
	Metric    string                   `json:"metric"`
	DateRange DateRange                `json:"date_range"`
	Interval  string                   `json:"interval"`
	Data      []map[string]interface{} `json:"data"`
}

// InsightsService computes aggregate time-series analytics over activities.
type InsightsService interface {
	GetInsights(ctx context.Context, userID uuid.UUID, query InsightsQuery) (interface{}, error)
}

type insightsService struct {
	repo repository.ActivityRepository
	clk  clock.Clock
}

// NewInsightsService creates a new insights service.
func NewInsightsService(repo repository.ActivityRepository, clk clock.Clock) InsightsService {
	return &insightsService{
		repo: repo,
		clk:  clk,
	}
}

// GetInsights resolves the date range and dispatches on the metric selector.
func (s *insightsService) GetInsights(ctx context.Context, userID uuid.UUID, query InsightsQuery) (interface{}, error) {
	now := s.clk.Now()

	end := now
	if query.End != "" {
		parsed, ok := parseRangeBound(query.End)
		if !ok {
			return nil, apperrors.ErrInvalidDateRange
		}
		end = parsed
	}

	start := now.AddDate(0, 0, -defaultRangeDays)
	if query.Start != "" {
		parsed, ok := parseRangeBound(query.Start)
		if !ok {
			return nil, apperrors.ErrInvalidDateRange
		}
		start = parsed
	}

	switch query.Metric {
	case MetricTimePerTitle:
		return s.timePerTitle(ctx, userID, start, end, query.Search)
	case MetricTimePerTitleStacked:
		interval := query.Interval
		if interval == "" {
			interval = IntervalDaily
		}
		return s.timePerTitleStacked(ctx, userID, start, end, interval, query.Search)
	default:
		return nil, apperrors.ErrInvalidMetric
	}
}

// timePerTitle sums duration per distinct title over the range, descending.
func (s *insightsService) timePerTitle(ctx context.Context, userID uuid.UUID, start, end time.Time, search string) (*TimePerTitleInsights, error) {
	totals, err := s.repo.SumDurationByTitle(ctx, userID, start, end, search)
	if err != nil {
		return nil, fmt.Errorf("sum duration by title: %w", err)
	}

	data := make([]TitleTotal, 0, len(totals))
	for _, t := range totals {
		data = append(data, TitleTotal{
			Name:            t.Title,
			DurationMinutes: t.TotalDuration,
		})
	}

	return &TimePerTitleInsights{
		Metric:    MetricTimePerTitle,
		DateRange: newDateRange(start, end),
		Data:      data,
	}, nil
}

// timePerTitleStacked buckets activities by interval and sums duration per
// title within each bucket. Rows appear in the chronological order buckets
// are first encountered while scanning activities oldest first.
func (s *insightsService) timePerTitleStacked(ctx context.Context, userID uuid.UUID, start, end time.Time, interval, search string) (*StackedInsights, error) {
	activities, err := s.repo.FindInRange(ctx, userID, start, end, search)
	if err != nil {
		return nil, fmt.Errorf("find activities in range: %w", err)
	}

	bucketOrder := make([]string, 0)
	buckets := make(map[string]map[string]int)

	for _, activity := range activities {
		key := bucketKey(activity.Timestamp, interval)
		group, ok := buckets[key]
		if !ok {
			group = make(map[string]int)
			buckets[key] = group
			bucketOrder = append(bucketOrder, key)
		}
		group[activity.Title] += activity.Duration
	}

	field := bucketField(interval)
	data := make([]map[string]interface{}, 0, len(bucketOrder))
	for _, key := range bucketOrder {
		row := make(map[string]interface{}, len(buckets[key])+1)
		row[field] = key
		for title, minutes := range buckets[key] {
			row[title] = minutes
		}
		data = append(data, row)
	}

	return &StackedInsights{
		Metric:    MetricTimePerTitleStacked,
		DateRange: newDateRange(start, end),
		Interval:  interval,
		Data:      data,
	}, nil
}

func bucketField(interval string) string {
	switch interval {
	case IntervalWeekly:
		return "week"
	case IntervalMonthly:
		return "month"
	default:
		return "date"
	}
}

// bucketKey derives the grouping key for a timestamp at the given interval.
// All bucketing is done on the UTC calendar.
func bucketKey(t time.Time, interval string) string {
	t = t.UTC()
	switch interval {
	case IntervalWeekly:
		return fmt.Sprintf("%d-W%02d", t.Year(), weekNumber(t))
	case IntervalMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// weekNumber computes the 1-based week of the year as
// ceil((pastDaysOfYear + jan1Weekday + 1) / 7), where pastDaysOfYear is the
// fractional number of days elapsed since Jan 1 00:00 UTC and jan1Weekday is
// Sunday-based. This deliberately deviates from ISO-8601 week numbering near
// year boundaries; consumers depend on the exact boundary placement, so do
// not replace it with time.ISOWeek.
func weekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	pastDays := t.Sub(jan1).Hours() / 24
	return int(math.Ceil((pastDays + float64(jan1.Weekday()) + 1) / 7))
}

func newDateRange(start, end time.Time) DateRange {
	return DateRange{
		From: start.UTC().Format("2006-01-02"),
		To:   end.UTC().Format("2006-01-02"),
	}
}

// parseRangeBound accepts a calendar date (midnight UTC) or an RFC3339 instant.
func parseRangeBound(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
