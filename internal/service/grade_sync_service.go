package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/model"
)

// MaxSyncChanges bounds the number of inserts plus deletes one
// synchronization may submit in its transaction.
const MaxSyncChanges = 500

// GradeStore runs grade-set reconciliations atomically.
type GradeStore interface {
	// WithinTransaction runs fn in one transaction, committing only when fn
	// returns nil.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx GradeTx) error) error
	// ListByEnrollment returns the enrollment's grades in creation order,
	// or ErrNotFound if the enrollment does not exist.
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]model.GradeWithSubject, error)
}

// GradeTx is the set of statements a reconciliation issues inside its transaction.
type GradeTx interface {
	// LockEnrollment locks the enrollment row; ErrNotFound if it does not exist.
	LockEnrollment(ctx context.Context, enrollmentID uuid.UUID) error
	// SubjectIDs returns the subjects currently graded in the enrollment, in creation order.
	SubjectIDs(ctx context.Context, enrollmentID uuid.UUID) ([]uuid.UUID, error)
	// CreateGrades inserts empty grades; ErrInvalidInput if a subject does not exist.
	CreateGrades(ctx context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error
	// DeleteGrades removes the grades of the given subjects with all their data.
	DeleteGrades(ctx context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error
}

// GradeSyncService reconciles the subjects recorded for an enrollment.
type GradeSyncService struct {
	store GradeStore
	log   zerolog.Logger
}

// NewGradeSyncService creates a new GradeSyncService.
func NewGradeSyncService(store GradeStore, log zerolog.Logger) *GradeSyncService {
	return &GradeSyncService{
		store: store,
		log:   log.With().Str("component", "grade_sync_service").Logger(),
	}
}

// ListEnrollmentGrades returns the grades recorded for an enrollment.
func (s *GradeSyncService) ListEnrollmentGrades(ctx context.Context, enrollmentID uuid.UUID) ([]model.GradeWithSubject, error) {
	grades, err := s.store.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	if grades == nil {
		grades = []model.GradeWithSubject{}
	}
	return grades, nil
}

// SyncEnrollmentSubjects makes the enrollment's graded subjects equal to
// subjectIDs. Missing subjects get an empty grade, extra ones are deleted
// with their data, and shared ones are left untouched. All changes commit
// together or not at all; a repeated call with the same set writes nothing.
func (s *GradeSyncService) SyncEnrollmentSubjects(ctx context.Context, enrollmentID uuid.UUID, subjectIDs []string) (*model.GradeSyncResult, error) {
	desired, err := parseSubjectIDs(subjectIDs)
	if err != nil {
		return nil, err
	}

	result := &model.GradeSyncResult{
		EnrollmentID: enrollmentID,
		Added:        []uuid.UUID{},
		Removed:      []uuid.UUID{},
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx GradeTx) error {
		if err := tx.LockEnrollment(ctx, enrollmentID); err != nil {
			return err
		}

		current, err := tx.SubjectIDs(ctx, enrollmentID)
		if err != nil {
			return fmt.Errorf("read current subjects: %w", err)
		}

		add, remove := DiffSubjectSets(current, desired)
		if len(add)+len(remove) > MaxSyncChanges {
			return fmt.Errorf("%w: %d changes exceed the limit of %d", ErrInvalidInput, len(add)+len(remove), MaxSyncChanges)
		}

		if len(add) > 0 {
			if err := tx.CreateGrades(ctx, enrollmentID, add); err != nil {
				return fmt.Errorf("create grades: %w", err)
			}
		}
		if len(remove) > 0 {
			if err := tx.DeleteGrades(ctx, enrollmentID, remove); err != nil {
				return fmt.Errorf("delete grades: %w", err)
			}
		}

		result.Added = add
		result.Removed = remove
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed() {
		s.log.Info().
			Str("enrollment_id", enrollmentID.String()).
			Int("added", len(result.Added)).
			Int("removed", len(result.Removed)).
			Msg("Enrollment subjects synchronized")
	}

	return result, nil
}

// DiffSubjectSets returns desired minus current (to add, in desired order)
// and current minus desired (to remove, in current order).
func DiffSubjectSets(current, desired []uuid.UUID) (add, remove []uuid.UUID) {
	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	add = []uuid.UUID{}
	for _, id := range desired {
		if !have[id] {
			add = append(add, id)
		}
	}
	remove = []uuid.UUID{}
	for _, id := range current {
		if !want[id] {
			remove = append(remove, id)
		}
	}
	return add, remove
}

// parseSubjectIDs validates and de-duplicates the desired subject list,
// keeping first occurrences in order.
func parseSubjectIDs(raw []string) ([]uuid.UUID, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: subject_ids is required", ErrInvalidInput)
	}
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed subject id %q", ErrInvalidInput, s)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
