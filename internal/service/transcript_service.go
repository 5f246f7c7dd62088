package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/model"
)

// TranscriptStore loads a student's full enrollment/grade graph in one read.
// It returns ErrNotFound when the student does not exist.
type TranscriptStore interface {
	LoadStudentGraph(ctx context.Context, studentID uuid.UUID) (*model.StudentGraph, error)
}

// TranscriptService aggregates a student's records into a Transcript.
type TranscriptService struct {
	store TranscriptStore
	log   zerolog.Logger
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(store TranscriptStore, log zerolog.Logger) *TranscriptService {
	return &TranscriptService{
		store: store,
		log:   log.With().Str("component", "transcript_service").Logger(),
	}
}

// BuildTranscript loads the student's graph and groups it into chronological
// blocks, one per enrollment. Hours mismatches are reported as alerts and
// never fail the call.
func (s *TranscriptService) BuildTranscript(ctx context.Context, studentID uuid.UUID) (*model.Transcript, error) {
	graph, err := s.store.LoadStudentGraph(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student graph: %w", err)
	}

	t := Aggregate(graph)

	for _, alert := range t.Alerts {
		s.log.Warn().
			Str("student_id", studentID.String()).
			Str("alert", alert).
			Msg("Transcript consistency alert")
	}

	return t, nil
}

// Aggregate turns a loaded graph into a Transcript. It is deterministic for
// identical input regardless of the order the store returned rows in.
func Aggregate(graph *model.StudentGraph) *model.Transcript {
	st := graph.Student
	t := &model.Transcript{
		Student: model.TranscriptStudent{
			ID:        st.ID,
			Name:      st.Name,
			Document:  st.Document,
			BirthDate: st.BirthDate,
		},
		Blocks: []model.TranscriptBlock{},
		Alerts: []string{},
	}

	enrollments := make([]model.EnrollmentRecord, len(graph.Enrollments))
	copy(enrollments, graph.Enrollments)
	sort.SliceStable(enrollments, func(i, j int) bool {
		a, b := enrollments[i].Enrollment, enrollments[j].Enrollment
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	// Distinct years, ascending; creation order is kept inside each year.
	seen := make(map[int]bool)
	var years []int
	for _, e := range enrollments {
		if y := e.SchoolYear.Year; !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)

	for _, year := range years {
		for _, e := range enrollments {
			if e.SchoolYear.Year != year {
				continue
			}
			t.Blocks = append(t.Blocks, buildBlock(e))
		}
	}

	for _, b := range t.Blocks {
		if alert, ok := hoursAlert(b); ok {
			t.Alerts = append(t.Alerts, alert)
		}
	}

	return t
}

func buildBlock(e model.EnrollmentRecord) model.TranscriptBlock {
	grades := make([]model.GradeRecord, len(e.Grades))
	copy(grades, e.Grades)
	sort.SliceStable(grades, func(i, j int) bool {
		a, b := grades[i].Grade, grades[j].Grade
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	subjects := make([]model.TranscriptSubject, 0, len(grades))
	for _, g := range grades {
		hours := g.Subject.AnnualHours
		var load *int
		if hours > 0 {
			load = &hours
		}
		subjects = append(subjects, model.TranscriptSubject{
			SubjectID:   g.Subject.ID,
			Name:        g.Subject.Name,
			AnnualHours: load,
			FinalScore:  g.Grade.FinalScore,
			Absences:    g.Grade.Absences,
			Note:        g.Grade.Note,
		})
	}

	return model.TranscriptBlock{
		EnrollmentID:   e.Enrollment.ID,
		Year:           e.SchoolYear.Year,
		Stage:          e.SchoolYear.Stage,
		Section:        e.Class.Section,
		Shift:          e.Class.Shift,
		AttendanceRate: e.Enrollment.AttendanceRate,
		FinalResult:    e.Enrollment.FinalResult,
		TotalHours:     e.Enrollment.TotalHours,
		Subjects:       subjects,
	}
}

// hoursAlert compares the recorded total hours with the sum of subject loads.
// A block without a recorded total is never flagged.
func hoursAlert(b model.TranscriptBlock) (string, bool) {
	if b.TotalHours == nil {
		return "", false
	}
	sum := b.SubjectHoursSum()
	if sum == *b.TotalHours {
		return "", false
	}
	return fmt.Sprintf("inconsistent hours in %d %s: sum %d, total %d", b.Year, b.Stage, sum, *b.TotalHours), true
}

// createdBefore mirrors the store's ORDER BY created_at, id.
func createdBefore(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return bytes.Compare(idA[:], idB[:]) < 0
}
