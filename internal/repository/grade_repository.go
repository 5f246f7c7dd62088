package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/historico-backend/internal/database"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/service"
)

// GradeRepository handles grade data access and implements service.GradeStore.
type GradeRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(pool *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithinTransaction runs fn in a single database transaction.
func (r *GradeRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx service.GradeTx) error) error {
	return database.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &gradeTx{tx: tx, sb: r.sb})
	})
}

// ListByEnrollment returns the enrollment's grades joined with their subjects.
func (r *GradeRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]model.GradeWithSubject, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE id = $1)`, enrollmentID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !exists {
		return nil, service.ErrNotFound
	}

	sql, args, err := r.sb.Select(
		"g.id", "g.enrollment_id", "g.subject_id", "g.final_score", "g.absences", "g.note", "g.created_at",
		"s.name", "s.annual_hours", "s.component",
	).
		From("grades g").
		Join("subjects s ON s.id = g.subject_id").
		Where(squirrel.Eq{"g.enrollment_id": enrollmentID.String()}).
		OrderBy("g.created_at", "g.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list grades query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()

	grades := []model.GradeWithSubject{}
	for rows.Next() {
		var g model.GradeWithSubject
		if err := rows.Scan(
			&g.ID, &g.EnrollmentID, &g.SubjectID, &g.FinalScore, &g.Absences, &g.Note, &g.CreatedAt,
			&g.Subject.Name, &g.Subject.AnnualHours, &g.Subject.Component,
		); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		g.Subject.ID = g.SubjectID
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// gradeTx issues the reconciliation statements on an open transaction.
type gradeTx struct {
	tx pgx.Tx
	sb squirrel.StatementBuilderType
}

func (t *gradeTx) LockEnrollment(ctx context.Context, enrollmentID uuid.UUID) error {
	sql, args, err := t.sb.Select("id").
		From("enrollments").
		Where(squirrel.Eq{"id": enrollmentID.String()}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock query: %w", err)
	}

	var id uuid.UUID
	if err := t.tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrNotFound
		}
		return fmt.Errorf("lock enrollment: %w", err)
	}
	return nil
}

func (t *gradeTx) SubjectIDs(ctx context.Context, enrollmentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT subject_id FROM grades WHERE enrollment_id = $1 ORDER BY created_at, id`, enrollmentID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

func (t *gradeTx) CreateGrades(ctx context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error {
	rows := make([][]any, len(subjectIDs))
	for i, id := range subjectIDs {
		rows[i] = []any{enrollmentID, id}
	}

	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"grades"},
		[]string{"enrollment_id", "subject_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: unknown subject", service.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (t *gradeTx) DeleteGrades(ctx context.Context, enrollmentID uuid.UUID, subjectIDs []uuid.UUID) error {
	ids := make([]string, len(subjectIDs))
	for i, id := range subjectIDs {
		ids[i] = id.String()
	}

	sql, args, err := t.sb.Delete("grades").
		Where(squirrel.Eq{"enrollment_id": enrollmentID.String()}).
		Where(squirrel.Eq{"subject_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	_, err = t.tx.Exec(ctx, sql, args...)
	return err
}
