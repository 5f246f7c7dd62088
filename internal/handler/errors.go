package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/response"
	"github.com/stemsi/historico-backend/internal/service"
)

// parseUUIDParam reads a UUID path parameter, answering 400 INVALID_ID when
// it is malformed.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failWithError maps a service error onto the response envelope.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	case errors.Is(err, service.ErrRenderFailure):
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Msg("Document rendering failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrRenderFailed)
	default:
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
