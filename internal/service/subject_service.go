package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/response"
)

// SubjectStore reads the subject catalog.
type SubjectStore interface {
	ListPaginated(ctx context.Context, limit, offset int) ([]model.Subject, int, error)
}

type SubjectService struct {
	store SubjectStore
	log   zerolog.Logger
}

func NewSubjectService(store SubjectStore, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		store: store,
		log:   log.With().Str("component", "subject_service").Logger(),
	}
}

// ListSubjects returns one page of the catalog used by the subject picker.
func (s *SubjectService) ListSubjects(ctx context.Context, page, perPage int) ([]model.Subject, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}

	subjects, total, err := s.store.ListPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}

	return subjects, response.NewPagination(page, perPage, total), nil
}
