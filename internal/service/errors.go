package service

import (
	"errors"

	"github.com/stemsi/historico-backend/internal/render"
)

// Domain errors. Handlers map these to response codes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrRenderFailure is returned when a document could not be produced in full.
	ErrRenderFailure = render.ErrRenderFailure
)
