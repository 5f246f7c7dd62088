package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/service"
)

// TranscriptRepository reads the data behind a transcript.
type TranscriptRepository struct {
	pool *pgxpool.Pool
}

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(pool *pgxpool.Pool) *TranscriptRepository {
	return &TranscriptRepository{pool: pool}
}

// One row per (enrollment, grade) pair; the student alone when it has no
// enrollments, an enrollment alone when it has no grades.
const studentGraphQuery = `
SELECT st.id, st.name, st.document, st.birth_date, st.created_at,
       e.id, e.class_id, e.attendance_rate, e.final_result, e.total_hours, e.created_at,
       c.school_year_id, c.section, c.shift,
       y.year, y.stage,
       g.id, g.final_score, g.absences, g.note, g.created_at,
       sb.id, sb.name, sb.annual_hours, sb.component
FROM students st
LEFT JOIN enrollments e   ON e.student_id = st.id
LEFT JOIN classes c       ON c.id = e.class_id
LEFT JOIN school_years y  ON y.id = c.school_year_id
LEFT JOIN grades g        ON g.enrollment_id = e.id
LEFT JOIN subjects sb     ON sb.id = g.subject_id
WHERE st.id = $1
ORDER BY e.created_at, e.id, g.created_at, g.id`

// graphRow is one scanned row of studentGraphQuery. Every column after the
// student's is nullable because of the LEFT JOINs.
type graphRow struct {
	student model.Student

	enrollmentID   *uuid.UUID
	classID        *uuid.UUID
	attendanceRate *float64
	finalResult    *string
	totalHours     *int
	enrolledAt     *time.Time

	schoolYearID *uuid.UUID
	section      *string
	shift        *string
	year         *int
	stage        *string

	gradeID    *uuid.UUID
	finalScore *float64
	absences   *int
	note       *string
	gradedAt   *time.Time

	subjectID   *uuid.UUID
	subjectName *string
	annualHours *int
	component   *string
}

// LoadStudentGraph loads the student with every enrollment, class, school
// year, grade and subject in a single query. It returns service.ErrNotFound
// when the student does not exist.
func (r *TranscriptRepository) LoadStudentGraph(ctx context.Context, studentID uuid.UUID) (*model.StudentGraph, error) {
	rows, err := r.pool.Query(ctx, studentGraphQuery, studentID)
	if err != nil {
		return nil, fmt.Errorf("query student graph: %w", err)
	}
	defer rows.Close()

	var scanned []graphRow
	for rows.Next() {
		var row graphRow
		st := &row.student
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Document, &st.BirthDate, &st.CreatedAt,
			&row.enrollmentID, &row.classID, &row.attendanceRate, &row.finalResult, &row.totalHours, &row.enrolledAt,
			&row.schoolYearID, &row.section, &row.shift,
			&row.year, &row.stage,
			&row.gradeID, &row.finalScore, &row.absences, &row.note, &row.gradedAt,
			&row.subjectID, &row.subjectName, &row.annualHours, &row.component,
		); err != nil {
			return nil, fmt.Errorf("scan student graph: %w", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student graph: %w", err)
	}

	graph := groupStudentGraph(scanned)
	if graph == nil {
		return nil, service.ErrNotFound
	}
	return graph, nil
}

// groupStudentGraph folds joined rows into a graph, keeping the row order
// for enrollments and their grades. A row without an enrollment stands for
// a student with none; one without a grade, for an ungraded enrollment.
// It returns nil when rows is empty.
func groupStudentGraph(rows []graphRow) *model.StudentGraph {
	if len(rows) == 0 {
		return nil
	}

	st := rows[0].student
	graph := &model.StudentGraph{Student: st, Enrollments: []model.EnrollmentRecord{}}
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		if row.enrollmentID == nil {
			continue
		}
		pos, ok := index[*row.enrollmentID]
		if !ok {
			pos = len(graph.Enrollments)
			index[*row.enrollmentID] = pos
			graph.Enrollments = append(graph.Enrollments, row.enrollment(st.ID))
		}
		if row.gradeID != nil {
			rec := &graph.Enrollments[pos]
			rec.Grades = append(rec.Grades, row.grade())
		}
	}
	return graph
}

func (row graphRow) enrollment(studentID uuid.UUID) model.EnrollmentRecord {
	e := model.Enrollment{
		ID:             *row.enrollmentID,
		StudentID:      studentID,
		ClassID:        deref(row.classID),
		AttendanceRate: row.attendanceRate,
		TotalHours:     row.totalHours,
		CreatedAt:      deref(row.enrolledAt),
	}
	if row.finalResult != nil {
		res := model.FinalResult(*row.finalResult)
		e.FinalResult = &res
	}
	return model.EnrollmentRecord{
		Enrollment: e,
		Class: model.Class{
			ID:           e.ClassID,
			SchoolYearID: deref(row.schoolYearID),
			Section:      deref(row.section),
			Shift:        deref(row.shift),
		},
		SchoolYear: model.SchoolYear{
			ID:    deref(row.schoolYearID),
			Year:  deref(row.year),
			Stage: deref(row.stage),
		},
		Grades: []model.GradeRecord{},
	}
}

func (row graphRow) grade() model.GradeRecord {
	return model.GradeRecord{
		Grade: model.Grade{
			ID:           *row.gradeID,
			EnrollmentID: *row.enrollmentID,
			SubjectID:    deref(row.subjectID),
			FinalScore:   row.finalScore,
			Absences:     row.absences,
			Note:         row.note,
			CreatedAt:    deref(row.gradedAt),
		},
		Subject: model.Subject{
			ID:          deref(row.subjectID),
			Name:        deref(row.subjectName),
			AnnualHours: deref(row.annualHours),
			Component:   row.component,
		},
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
