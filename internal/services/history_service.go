package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
)

// HistoryServiceProvider defines the interface for the classification
// history store.
type HistoryServiceProvider interface {
	List(ctx context.Context, identity models.Identity, role auth.Role) ([]models.ClassificationRecord, error)
	Insert(ctx context.Context, record models.ClassificationRecord) error
	DeleteOne(ctx context.Context, identity models.Identity, role auth.Role, id string) error
	ClearAll(ctx context.Context, identity models.Identity, role auth.Role) error
}

// HistoryService provides business logic for classification records.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

// List returns classification records newest first. Administrators see the
// full table; everyone else only their own records. The identity must be
// resolved: listing with an empty identity is refused rather than risking a
// query that returns another party's data.
func (s *HistoryService) List(ctx context.Context, identity models.Identity, role auth.Role) ([]models.ClassificationRecord, error) {
	if identity.ID == "" {
		return nil, fmt.Errorf("identity not resolved: %w", ErrForbidden)
	}

	query := "SELECT id, user_id, filename, top_category, confidence, all_predictions, created_at FROM classification_history"
	args := []interface{}{}
	if role != auth.RoleAdministrator {
		query += " WHERE user_id = ?"
		args = append(args, identity.ID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var records []models.ClassificationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Insert appends a freshly created classification record. Failures are
// reported as ErrPersistenceFailed; the caller decides whether the
// surrounding user-facing action survives.
func (s *HistoryService) Insert(ctx context.Context, record models.ClassificationRecord) error {
	predictions, err := json.Marshal(record.AllPredictions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO classification_history(id, user_id, filename, top_category, confidence, all_predictions, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.UserID, record.Filename, record.TopCategory, record.Confidence,
		string(predictions), record.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return nil
}

// DeleteOne removes a single record by id. Permitted for the record owner
// and for administrators.
func (s *HistoryService) DeleteOne(ctx context.Context, identity models.Identity, role auth.Role, id string) error {
	var ownerID string
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM classification_history WHERE id = ?", id).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if role != auth.RoleAdministrator && ownerID != identity.ID {
		return ErrForbidden
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM classification_history WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// ClearAll deletes every record owned by the caller. Administrators are
// refused outright: the unscoped table is shared and must not be
// bulk-cleared.
func (s *HistoryService) ClearAll(ctx context.Context, identity models.Identity, role auth.Role) error {
	if role == auth.RoleAdministrator {
		return fmt.Errorf("administrators cannot clear the shared history table: %w", ErrForbidden)
	}
	if identity.ID == "" {
		return fmt.Errorf("identity not resolved: %w", ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM classification_history WHERE user_id = ?", identity.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.ClassificationRecord, error) {
	var record models.ClassificationRecord
	var predictions sql.NullString
	var createdAt int64
	if err := row.Scan(&record.ID, &record.UserID, &record.Filename, &record.TopCategory,
		&record.Confidence, &predictions, &createdAt); err != nil {
		return models.ClassificationRecord{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if predictions.Valid && predictions.String != "" {
		if err := json.Unmarshal([]byte(predictions.String), &record.AllPredictions); err != nil {
			return models.ClassificationRecord{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}
	record.CreatedAt = time.UnixMilli(createdAt).UTC()
	return record, nil
}

// Filter holds the client-side refinement applied to an already-fetched
// record set, without another round trip. Term matches filename or category
// substrings case-insensitively; Category restricts to an exact category
// ("all" or empty disables it). Both conditions compose.
type Filter struct {
	Term     string
	Category string
}

// FilterRecords applies f to records and returns the matching subset in the
// original order.
func FilterRecords(records []models.ClassificationRecord, f Filter) []models.ClassificationRecord {
	term := strings.ToLower(f.Term)
	out := make([]models.ClassificationRecord, 0, len(records))
	for _, record := range records {
		if term != "" &&
			!strings.Contains(strings.ToLower(record.Filename), term) &&
			!strings.Contains(strings.ToLower(record.TopCategory), term) {
			continue
		}
		if f.Category != "" && f.Category != "all" && record.TopCategory != f.Category {
			continue
		}
		out = append(out, record)
	}
	return out
}

// DistinctCategories returns the sorted set of categories observed in the
// given records, for populating filter dropdowns.
func DistinctCategories(records []models.ClassificationRecord) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, record := range records {
		if !seen[record.TopCategory] {
			seen[record.TopCategory] = true
			categories = append(categories, record.TopCategory)
		}
	}
	sort.Strings(categories)
	return categories
}
