package services

import (
	"context"
	"sync"
	"testing"

	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is a scripted HistoryServiceProvider whose List responses can
// be held back to simulate slow fetches.
type stubStore struct {
	mu      sync.Mutex
	records []models.ClassificationRecord
	gate    chan struct{} // when set, the next List blocks until it closes
	entered chan struct{} // closed once a List has picked up the gate
	deleted []string
	cleared bool
}

func (s *stubStore) List(ctx context.Context, identity models.Identity, role auth.Role) ([]models.ClassificationRecord, error) {
	s.mu.Lock()
	gate := s.gate
	entered := s.entered
	s.gate = nil
	s.entered = nil
	records := make([]models.ClassificationRecord, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	if gate != nil {
		if entered != nil {
			close(entered)
		}
		<-gate
	}
	return records, nil
}

func (s *stubStore) Insert(ctx context.Context, record models.ClassificationRecord) error {
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return nil
}

func (s *stubStore) DeleteOne(ctx context.Context, identity models.Identity, role auth.Role, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubStore) ClearAll(ctx context.Context, identity models.Identity, role auth.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = true
	s.records = nil
	return nil
}

func TestViewRefreshAndVisible(t *testing.T) {
	store := &stubStore{records: []models.ClassificationRecord{
		{ID: "1", Filename: "bin.jpg", TopCategory: "sharps"},
		{ID: "2", Filename: "gloves.png", TopCategory: "biohazard"},
	}}
	view := NewHistoryView(store)

	require.NoError(t, view.Refresh(context.Background(), userA, auth.RoleStandard))
	assert.Len(t, view.Visible(), 2)
	assert.Equal(t, []string{"biohazard", "sharps"}, view.Categories())

	view.SetFilter(Filter{Category: "sharps"})
	visible := view.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].ID)

	// The refinement narrows what is visible, never what is held.
	view.SetFilter(Filter{})
	assert.Len(t, view.Visible(), 2)
}

func TestViewStaleResponseDropped(t *testing.T) {
	store := &stubStore{records: []models.ClassificationRecord{{ID: "old", TopCategory: "sharps"}}}
	view := NewHistoryView(store)

	// First refresh blocks inside the store until released.
	gate := make(chan struct{})
	entered := make(chan struct{})
	store.mu.Lock()
	store.gate = gate
	store.entered = entered
	store.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- view.Refresh(context.Background(), userA, auth.RoleStandard)
	}()
	<-entered

	// A second refresh starts later but lands first, with fresher rows.
	store.mu.Lock()
	store.records = []models.ClassificationRecord{{ID: "new", TopCategory: "sharps"}}
	store.mu.Unlock()
	require.NoError(t, view.Refresh(context.Background(), userA, auth.RoleStandard))

	close(gate)
	require.NoError(t, <-done)

	// The slow first response must not clobber the fresher rows.
	visible := view.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "new", visible[0].ID)
}

func TestViewDeleteRefetches(t *testing.T) {
	store := &stubStore{records: []models.ClassificationRecord{
		{ID: "1", TopCategory: "sharps"},
		{ID: "2", TopCategory: "biohazard"},
	}}
	view := NewHistoryView(store)
	require.NoError(t, view.Refresh(context.Background(), userA, auth.RoleStandard))

	require.NoError(t, view.DeleteOne(context.Background(), userA, auth.RoleStandard, "1"))

	assert.Equal(t, []string{"1"}, store.deleted)
	visible := view.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}

func TestViewClearRefetches(t *testing.T) {
	store := &stubStore{records: []models.ClassificationRecord{{ID: "1", TopCategory: "sharps"}}}
	view := NewHistoryView(store)
	require.NoError(t, view.Refresh(context.Background(), userA, auth.RoleStandard))

	require.NoError(t, view.ClearAll(context.Background(), userA, auth.RoleStandard))

	assert.True(t, store.cleared)
	assert.Empty(t, view.Visible())
}
