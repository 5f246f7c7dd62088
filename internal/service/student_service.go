package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/historico-backend/internal/model"
)

// StudentStore looks students up by id; ErrNotFound when absent.
type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
}

// StudentService handles student lookups.
type StudentService struct {
	store StudentStore
}

// NewStudentService creates a new StudentService.
func NewStudentService(store StudentStore) *StudentService {
	return &StudentService{store: store}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.store.GetByID(ctx, id)
}
