package services

import (
	"context"
	"sync"

	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
)

// HistoryView holds one consumer's fetched slice of the history table plus
// its search refinement. Fetches are not cancelled when a consumer goes
// away; instead each refresh is tagged with a generation and a response
// that lands after a newer one has already been applied is dropped, so a
// slow fetch can never clobber fresher rows.
type HistoryView struct {
	store HistoryServiceProvider

	mu      sync.Mutex
	started uint64 // refresh generations handed out
	applied uint64 // generation of the rows currently held
	records []models.ClassificationRecord
	filter  Filter
}

// NewHistoryView creates a view over the given store.
func NewHistoryView(store HistoryServiceProvider) *HistoryView {
	return &HistoryView{store: store}
}

// Refresh re-fetches the record set for the given identity and role.
func (v *HistoryView) Refresh(ctx context.Context, identity models.Identity, role auth.Role) error {
	v.mu.Lock()
	v.started++
	gen := v.started
	v.mu.Unlock()

	records, err := v.store.List(ctx, identity, role)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen < v.applied {
		// A newer refresh already landed; drop this stale response.
		return nil
	}
	v.applied = gen
	v.records = records
	return nil
}

// DeleteOne removes a record and re-fetches the full set afterwards, so the
// visible list always reflects backend truth rather than an optimistic
// local removal.
func (v *HistoryView) DeleteOne(ctx context.Context, identity models.Identity, role auth.Role, id string) error {
	if err := v.store.DeleteOne(ctx, identity, role, id); err != nil {
		return err
	}
	return v.Refresh(ctx, identity, role)
}

// ClearAll deletes every record the caller owns and re-fetches. The store
// refuses the operation for administrators.
func (v *HistoryView) ClearAll(ctx context.Context, identity models.Identity, role auth.Role) error {
	if err := v.store.ClearAll(ctx, identity, role); err != nil {
		return err
	}
	return v.Refresh(ctx, identity, role)
}

// SetFilter replaces the search refinement.
func (v *HistoryView) SetFilter(f Filter) {
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
}

// Visible returns the fetched records with the current refinement applied.
func (v *HistoryView) Visible() []models.ClassificationRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FilterRecords(v.records, v.filter)
}

// Categories returns the categories observed in the fetched set.
func (v *HistoryView) Categories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return DistinctCategories(v.records)
}
