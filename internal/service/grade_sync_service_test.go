package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGradeStore keeps grades in memory and restores a snapshot when the
// transaction callback fails.
type fakeGradeStore struct {
	enrollments map[uuid.UUID]bool
	subjects    map[uuid.UUID]model.Subject
	grades      []model.Grade
	writes      int
	clock       time.Time
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{
		enrollments: map[uuid.UUID]bool{},
		subjects:    map[uuid.UUID]model.Subject{},
		clock:       t0,
	}
}

func (f *fakeGradeStore) addSubject(name string) uuid.UUID {
	s := subject(name, 80)
	f.subjects[s.ID] = s
	return s.ID
}

func (f *fakeGradeStore) WithinTransaction(ctx context.Context, fn func(context.Context, GradeTx) error) error {
	snapshot := append([]model.Grade(nil), f.grades...)
	if err := fn(ctx, f); err != nil {
		f.grades = snapshot
		return err
	}
	return nil
}

func (f *fakeGradeStore) ListByEnrollment(_ context.Context, enrollmentID uuid.UUID) ([]model.GradeWithSubject, error) {
	if !f.enrollments[enrollmentID] {
		return nil, ErrNotFound
	}
	var out []model.GradeWithSubject
	for _, g := range f.grades {
		if g.EnrollmentID == enrollmentID {
			out = append(out, model.GradeWithSubject{Grade: g, Subject: f.subjects[g.SubjectID]})
		}
	}
	return out, nil
}

func (f *fakeGradeStore) LockEnrollment(_ context.Context, enrollmentID uuid.UUID) error {
	if !f.enrollments[enrollmentID] {
		return ErrNotFound
	}
	return nil
}

func (f *fakeGradeStore) SubjectIDs(_ context.Context, enrollmentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, g := range f.grades {
		if g.EnrollmentID == enrollmentID {
			ids = append(ids, g.SubjectID)
		}
	}
	return ids, nil
}

func (f *fakeGradeStore) CreateGrades(_ context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error {
	f.writes++
	for _, id := range subjectIDs {
		if _, ok := f.subjects[id]; !ok {
			return fmt.Errorf("%w: subject %s does not exist", ErrInvalidInput, id)
		}
		f.clock = f.clock.Add(time.Millisecond)
		f.grades = append(f.grades, model.Grade{
			ID:           uuid.New(),
			EnrollmentID: enrollmentID,
			SubjectID:    id,
			CreatedAt:    f.clock,
		})
	}
	return nil
}

func (f *fakeGradeStore) DeleteGrades(_ context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error {
	f.writes++
	drop := map[uuid.UUID]bool{}
	for _, id := range subjectIDs {
		drop[id] = true
	}
	kept := f.grades[:0]
	for _, g := range f.grades {
		if g.EnrollmentID == enrollmentID && drop[g.SubjectID] {
			continue
		}
		kept = append(kept, g)
	}
	f.grades = kept
	return nil
}

func (f *fakeGradeStore) gradeOf(enrollmentID, subjectID uuid.UUID) *model.Grade {
	for i := range f.grades {
		if f.grades[i].EnrollmentID == enrollmentID && f.grades[i].SubjectID == subjectID {
			return &f.grades[i]
		}
	}
	return nil
}

func strs(ids ...uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func TestGradeSyncService_SyncEnrollmentSubjects(t *testing.T) {
	ctx := context.Background()
	store := newFakeGradeStore()
	enrollmentID := uuid.New()
	store.enrollments[enrollmentID] = true
	math := store.addSubject("Matemática")
	port := store.addSubject("Português")
	arts := store.addSubject("Artes")

	svc := NewGradeSyncService(store, zerolog.Nop())

	res, err := svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(math, port))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{math, port}, res.Added)
	assert.Empty(t, res.Removed)

	// Record data on an existing grade; it must survive an unrelated change.
	store.gradeOf(enrollmentID, math).FinalScore = ptr(9.0)
	store.gradeOf(enrollmentID, math).Absences = ptr(3)

	res, err = svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(math, arts))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{arts}, res.Added)
	assert.Equal(t, []uuid.UUID{port}, res.Removed)

	kept := store.gradeOf(enrollmentID, math)
	require.NotNil(t, kept)
	assert.Equal(t, 9.0, *kept.FinalScore)
	assert.Equal(t, 3, *kept.Absences)
	assert.Nil(t, store.gradeOf(enrollmentID, port))
	assert.NotNil(t, store.gradeOf(enrollmentID, arts))
}

func TestGradeSyncService_SyncEnrollmentSubjects_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeGradeStore()
	enrollmentID := uuid.New()
	store.enrollments[enrollmentID] = true
	a := store.addSubject("Geografia")
	b := store.addSubject("História")

	svc := NewGradeSyncService(store, zerolog.Nop())

	_, err := svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(a, b))
	require.NoError(t, err)
	writes := store.writes

	// Same set in a different order with a duplicate.
	res, err := svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(b, a, b))
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, writes, store.writes, "second call must not write")
}

func TestGradeSyncService_SyncEnrollmentSubjects_EmptySetRemovesAll(t *testing.T) {
	ctx := context.Background()
	store := newFakeGradeStore()
	enrollmentID := uuid.New()
	store.enrollments[enrollmentID] = true
	a := store.addSubject("Inglês")

	svc := NewGradeSyncService(store, zerolog.Nop())
	_, err := svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(a))
	require.NoError(t, err)

	res, err := svc.SyncEnrollmentSubjects(ctx, enrollmentID, []string{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, res.Removed)
	assert.Empty(t, store.grades)
}

func TestGradeSyncService_SyncEnrollmentSubjects_Errors(t *testing.T) {
	enrollmentID := uuid.New()

	tests := []struct {
		name       string
		enrollment uuid.UUID
		input      func(store *fakeGradeStore) []string
		wantErr    error
	}{
		{
			name:       "unknown enrollment",
			enrollment: uuid.New(),
			input:      func(*fakeGradeStore) []string { return []string{} },
			wantErr:    ErrNotFound,
		},
		{
			name:       "missing list",
			enrollment: enrollmentID,
			input:      func(*fakeGradeStore) []string { return nil },
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "malformed id",
			enrollment: enrollmentID,
			input:      func(*fakeGradeStore) []string { return []string{"not-a-uuid"} },
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "unknown subject",
			enrollment: enrollmentID,
			input: func(s *fakeGradeStore) []string {
				return strs(s.addSubject("Química"), uuid.New())
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:       "too many changes",
			enrollment: enrollmentID,
			input: func(s *fakeGradeStore) []string {
				ids := make([]uuid.UUID, 0, MaxSyncChanges+1)
				for i := 0; i <= MaxSyncChanges; i++ {
					ids = append(ids, s.addSubject(fmt.Sprintf("Disciplina %d", i)))
				}
				return strs(ids...)
			},
			wantErr: ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeGradeStore()
			store.enrollments[enrollmentID] = true
			svc := NewGradeSyncService(store, zerolog.Nop())

			res, err := svc.SyncEnrollmentSubjects(context.Background(), tt.enrollment, tt.input(store))
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, store.grades, "failed sync must leave no grades behind")
		})
	}
}

func TestGradeSyncService_ListEnrollmentGrades(t *testing.T) {
	ctx := context.Background()
	store := newFakeGradeStore()
	enrollmentID := uuid.New()
	store.enrollments[enrollmentID] = true
	svc := NewGradeSyncService(store, zerolog.Nop())

	grades, err := svc.ListEnrollmentGrades(ctx, enrollmentID)
	require.NoError(t, err)
	assert.NotNil(t, grades)
	assert.Empty(t, grades)

	a := store.addSubject("Filosofia")
	_, err = svc.SyncEnrollmentSubjects(ctx, enrollmentID, strs(a))
	require.NoError(t, err)

	grades, err = svc.ListEnrollmentGrades(ctx, enrollmentID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "Filosofia", grades[0].Subject.Name)

	_, err = svc.ListEnrollmentGrades(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiffSubjectSets(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name            string
		current, wanted []uuid.UUID
		add, remove     []uuid.UUID
	}{
		{name: "both empty", add: []uuid.UUID{}, remove: []uuid.UUID{}},
		{name: "all new", wanted: []uuid.UUID{a, b}, add: []uuid.UUID{a, b}, remove: []uuid.UUID{}},
		{name: "all gone", current: []uuid.UUID{a, b}, add: []uuid.UUID{}, remove: []uuid.UUID{a, b}},
		{name: "overlap", current: []uuid.UUID{a, b}, wanted: []uuid.UUID{b, c}, add: []uuid.UUID{c}, remove: []uuid.UUID{a}},
		{name: "same set", current: []uuid.UUID{a, b}, wanted: []uuid.UUID{b, a}, add: []uuid.UUID{}, remove: []uuid.UUID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			add, remove := DiffSubjectSets(tt.current, tt.wanted)
			assert.Equal(t, tt.add, add)
			assert.Equal(t, tt.remove, remove)
		})
	}
}
