package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medwaste/classify-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingUsers stands in for a user store whose backend is unreachable.
type failingUsers struct {
	UserServiceProvider
}

func (failingUsers) CountUsers(ctx context.Context) (int, error) {
	return 0, errors.New("backend unreachable")
}

func newStatsFixture(t *testing.T) (*StatsService, *HistoryService, *UserService, *EventService) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	events := NewEventService(db)
	history := NewHistoryService(db)
	return NewStatsService(db, users, events), history, users, events
}

func TestDashboardCounts(t *testing.T) {
	stats, history, users, _ := newStatsFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // a Monday

	_, err := users.CreateUser(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, "b@example.com", "secret2")
	require.NoError(t, err)

	insertRecord(t, history, "user-a", "sharps", now.Add(-time.Hour))
	insertRecord(t, history, "user-a", "sharps", now.Add(-2*time.Hour))
	insertRecord(t, history, "user-b", "biohazard", now.Add(-3*time.Hour))

	out, err := stats.Dashboard(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalUsers)
	assert.Equal(t, 3, out.TotalClassifications)
	assert.Equal(t, []models.CategoryCount{
		{Category: "biohazard", Amount: 1},
		{Category: "sharps", Amount: 2},
	}, out.CategoryCounts)
	assert.InDelta(t, 0.15, out.DisposalRate, 1e-9)
}

func TestDashboardCategoryCountsOmitEmpty(t *testing.T) {
	stats, history, _, _ := newStatsFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insertRecord(t, history, "user-a", "sharps", now)

	out, err := stats.Dashboard(ctx, now)
	require.NoError(t, err)

	// Only observed categories appear; nothing is zero-filled.
	require.Len(t, out.CategoryCounts, 1)
	assert.Equal(t, "sharps", out.CategoryCounts[0].Category)
}

func TestWeeklyHistogramAlwaysSevenBuckets(t *testing.T) {
	stats, _, _, _ := newStatsFixture(t)

	out, err := stats.Dashboard(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, out.WeeklyHistogram, 7)
	assert.Equal(t, "Sun", out.WeeklyHistogram[0].Weekday)
	assert.Equal(t, "Sat", out.WeeklyHistogram[6].Weekday)
	for _, bucket := range out.WeeklyHistogram {
		assert.Zero(t, bucket.Count)
	}
}

func TestWeeklyHistogramWindowAndBuckets(t *testing.T) {
	stats, history, _, _ := newStatsFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // Monday

	insertRecord(t, history, "user-a", "sharps", now.Add(-1*time.Hour))       // Monday
	insertRecord(t, history, "user-a", "sharps", now.Add(-2*24*time.Hour))    // Saturday
	insertRecord(t, history, "user-a", "biohazard", now.Add(-2*24*time.Hour)) // Saturday
	insertRecord(t, history, "user-a", "sharps", now.Add(-8*24*time.Hour))    // outside the window

	out, err := stats.Dashboard(ctx, now)
	require.NoError(t, err)

	histogram := out.WeeklyHistogram
	require.Len(t, histogram, 7)
	assert.Equal(t, 1, histogram[time.Monday].Count)
	assert.Equal(t, 2, histogram[time.Saturday].Count)

	total := 0
	for _, bucket := range histogram {
		total += bucket.Count
	}
	assert.Equal(t, 3, total, "the stale record must not be bucketed")
}

func TestDashboardFailureServesZeroedMetrics(t *testing.T) {
	db := newTestDB(t)
	events := NewEventService(db)
	stats := NewStatsService(db, failingUsers{}, events)
	ctx := context.Background()

	out, err := stats.Dashboard(ctx, time.Now().UTC())
	require.Error(t, err)

	assert.Equal(t, models.EmptyDashboardStats(), out)
	require.Len(t, out.WeeklyHistogram, 7)

	// The failure lands in the operator event log.
	logged, err := events.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "stats.aggregation_failed", logged[0].Type)
	assert.Equal(t, "error", logged[0].Level)
}

func TestDisposalRate(t *testing.T) {
	assert.Zero(t, models.DisposalRate(0))
	assert.InDelta(t, 5.0, models.DisposalRate(100), 1e-9)
	assert.InDelta(t, 100.0, models.DisposalRate(2000), 1e-9)
	assert.InDelta(t, 150.0, models.DisposalRate(3000), 1e-9)
}
