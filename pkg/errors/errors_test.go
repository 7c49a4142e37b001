package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrUnknownAdapter.HTTPStatus)
	assert.Equal(t, http.StatusNotFound, ErrVersionNotFound.HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, ErrEvaluationFailed.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, ErrCatalogLoadFailed.HTTPStatus)
}

func TestAppError_WithErrorDoesNotMutateSentinel(t *testing.T) {
	cause := fmt.Errorf("boom")
	wrapped := ErrEvaluationFailed.WithError(cause)

	assert.Nil(t, ErrEvaluationFailed.Err)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, stderrors.Is(wrapped, ErrEvaluationFailed))
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", ErrDocumentNotFound)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, CodeDocumentNotFound, AsAppError(wrapped).Code)

	plain := AsAppError(stderrors.New("plain"))
	assert.Equal(t, CodeUnknown, plain.Code)
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "3003 content version not found (v9)", ErrVersionNotFound.WithDetail("v9").Error())
	assert.Equal(t, "5002 cache: redis down", Wrap(stderrors.New("redis down"), CodeCacheError, "cache").Error())
}

func TestStatusOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(CodeDatabaseError))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(CodeRenderFailed))
}
