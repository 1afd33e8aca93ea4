package shared

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type createTaskBody struct {
		Subject          string `json:"subject"`
		Title            string `json:"title"`
		EstimatedMinutes int    `json:"estimated_minutes"`
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks",
			bytes.NewBufferString(`{"subject":"biology","title":"Read chapter 4","estimated_minutes":30}`))

		var body createTaskBody
		require.NoError(t, DecodeJSON(req, &body))
		assert.Equal(t, "biology", body.Subject)
		assert.Equal(t, "Read chapter 4", body.Title)
		assert.Equal(t, 30, body.EstimatedMinutes)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks",
			bytes.NewBufferString(`{"subject":"biology",}`))

		var body createTaskBody
		err := DecodeJSON(req, &body)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(""))

		var body createTaskBody
		err := DecodeJSON(req, &body)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EOF")
	})
}

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", errorReader{})

	var target struct{}
	err := DecodeJSON(req, &target)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

// subjectRequest carries its own Validate so the dispatcher prefers it
// over struct tags.
type subjectRequest struct {
	Subject string `validate:"required"`

	validateErr error
}

func (r *subjectRequest) Validate() error {
	return r.validateErr
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("custom Validate passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRequest(&subjectRequest{Subject: "history"}))
	})

	t.Run("custom Validate failure is returned", func(t *testing.T) {
		t.Parallel()
		req := &subjectRequest{Subject: "", validateErr: assert.AnError}
		assert.ErrorIs(t, ValidateRequest(req), assert.AnError)
	})

	t.Run("struct tags apply without a Validate method", func(t *testing.T) {
		t.Parallel()
		type tagged struct {
			Minutes int `validate:"gte=1"`
		}

		assert.NoError(t, ValidateRequest(&tagged{Minutes: 25}))
		assert.Error(t, ValidateRequest(&tagged{Minutes: 0}))
	})
}
