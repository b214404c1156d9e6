package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("couche service: %w", NewNotFoundError("Produit introuvable"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("brut")))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindOutOfStock))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindAuth))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := NewInternalError("Erreur lecture panier", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "redis down")

	conflict := NewRetryableConflict("réessayez", cause)
	assert.True(t, conflict.Retryable)
	assert.Equal(t, KindConflict, conflict.Kind)
}
