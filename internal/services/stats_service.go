package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/medwaste/classify-be/internal/models"
	"github.com/rs/zerolog/log"
)

// StatsServiceProvider defines the interface for dashboard aggregation.
type StatsServiceProvider interface {
	Dashboard(ctx context.Context, now time.Time) (models.DashboardStats, error)
}

// StatsService reduces the unscoped record set into the administrator
// dashboard metrics.
type StatsService struct {
	db     *sql.DB
	users  UserServiceProvider
	events EventServiceProvider
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *sql.DB, users UserServiceProvider, events EventServiceProvider) *StatsService {
	return &StatsService{db: db, users: users, events: events}
}

// Dashboard computes the aggregate metrics at the given time. On failure it
// returns the zeroed metrics object alongside the error and logs to the
// operator channel, so dashboards render a defined no-data state instead of
// failing.
func (s *StatsService) Dashboard(ctx context.Context, now time.Time) (models.DashboardStats, error) {
	stats, err := s.collect(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Dashboard aggregation failed, serving zeroed metrics")
		if s.events != nil {
			if evErr := s.events.CreateEvent(ctx, "stats.aggregation_failed", "error", err.Error(), nil); evErr != nil {
				log.Error().Err(evErr).Msg("Failed to record aggregation failure event")
			}
		}
		return models.EmptyDashboardStats(), err
	}
	return stats, nil
}

func (s *StatsService) collect(ctx context.Context, now time.Time) (models.DashboardStats, error) {
	stats := models.DashboardStats{CategoryCounts: []models.CategoryCount{}}

	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count users: %w", err)
	}
	stats.TotalUsers = totalUsers

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classification_history").Scan(&stats.TotalClassifications); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count classifications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT top_category, COUNT(*) FROM classification_history GROUP BY top_category ORDER BY top_category")
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Amount); err != nil {
			return models.DashboardStats{}, fmt.Errorf("category counts: %w", err)
		}
		stats.CategoryCounts = append(stats.CategoryCounts, cc)
	}
	if err := rows.Err(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("category counts: %w", err)
	}

	histogram, err := s.weeklyHistogram(ctx, now)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.WeeklyHistogram = histogram

	stats.DisposalRate = models.DisposalRate(stats.TotalClassifications)
	return stats, nil
}

// weeklyHistogram buckets the records of the trailing 7-day window by
// weekday. Weekday resolution is fixed to UTC so reports do not shift with
// the host timezone; all seven buckets are always present.
func (s *StatsService) weeklyHistogram(ctx context.Context, now time.Time) ([]models.WeeklyBucket, error) {
	buckets := models.EmptyWeeklyHistogram()

	windowStart := now.Add(-7 * 24 * time.Hour)
	rows, err := s.db.QueryContext(ctx,
		"SELECT created_at FROM classification_history WHERE created_at >= ?", windowStart.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("weekly histogram: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var createdAt int64
		if err := rows.Scan(&createdAt); err != nil {
			return nil, fmt.Errorf("weekly histogram: %w", err)
		}
		weekday := time.UnixMilli(createdAt).UTC().Weekday()
		buckets[int(weekday)].Count++
	}
	return buckets, rows.Err()
}
