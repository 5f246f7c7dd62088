package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"x": 1}) })
	r.GET("/bad", func(c *gin.Context) {
		FailWithDetail(c, http.StatusBadRequest, ErrValidation, "subject_ids is required")
	})

	t.Run("success keeps the caller's request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "req-1")
		r.ServeHTTP(w, req)

		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "req-1", body.Metadata.RequestID)
		assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
		assert.Nil(t, body.Error)
	})

	t.Run("oversized request id is replaced", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 200))
		r.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	})

	t.Run("failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, ErrValidation, body.Error.Code)
		assert.Equal(t, GetMessage(ErrValidation), body.Error.Message)
		assert.Equal(t, "subject_ids is required", body.Error.Fields["detail"])
		assert.NotEmpty(t, body.Metadata.RequestID)
	})
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		perPage   int
		total     int
		wantPages int
	}{
		{name: "empty", perPage: 50, total: 0, wantPages: 0},
		{name: "exact", perPage: 50, total: 100, wantPages: 2},
		{name: "partial last page", perPage: 50, total: 101, wantPages: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(1, tt.perPage, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalItems)
		})
	}
}

func TestAbortFail(t *testing.T) {
	reached := false
	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) { AbortFail(c, http.StatusForbidden, ErrPermissionDenied) },
		func(c *gin.Context) { reached = true },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrPermissionDenied, body.Error.Code)
	assert.Nil(t, body.Data)
	assert.NotEmpty(t, body.Metadata.RequestID)
}
