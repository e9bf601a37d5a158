package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := InvalidState(ReasonIsDraft, "cannot veto a draft activity").On("activity", 1)
	assert.Equal(t, "activity 1: cannot veto a draft activity", err.Error())

	assert.Equal(t, "authentication is required", Unauthenticated("authentication is required").Error())
}

func TestOnDoesNotMutate(t *testing.T) {
	base := Conflict(ReasonAlreadyClosed, "already closed")
	scoped := base.On("offer", 9)

	assert.Empty(t, base.Entity)
	assert.Equal(t, "offer", scoped.Entity)
	assert.Equal(t, uint(9), scoped.EntityID)
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("offer", 3))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrSessionNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	session := New(KindNotFound, ReasonSessionNotFound, "no session")
	assert.True(t, errors.Is(session, ErrNotFound))
	assert.True(t, errors.Is(session, ErrSessionNotFound))
	assert.False(t, errors.Is(session, ErrNoSuchRequest))
}

func TestKindAndReasonOf(t *testing.T) {
	err := fmt.Errorf("tx: %w", Unauthorized(ReasonNotAuthor, "not yours"))
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, ReasonNotAuthor, ReasonOf(err))

	plain := errors.New("disk full")
	assert.Equal(t, Kind(""), KindOf(plain))
	assert.Equal(t, Reason(""), ReasonOf(plain))
}

func TestValidation(t *testing.T) {
	err := Validation(
		FieldError{Field: "title", Message: "this field is required"},
		FieldError{Field: "link", Message: "must be a valid URL"},
	)
	assert.Equal(t, KindValidationFailed, err.Kind)
	assert.Equal(t, "title: this field is required; link: must be a valid URL", err.Error())
	assert.Len(t, err.Fields, 2)

	assert.Equal(t, "validation failed", Validation().Error())
}

func TestNotFoundByKey(t *testing.T) {
	err := NotFoundByKey("activity", "ACT-ABCDEFGHIJ")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, ReasonEntityNotFound, err.Reason)
	assert.Equal(t, "ACT-ABCDEFGHIJ", err.EntityKey)
	assert.Zero(t, err.EntityID)
	assert.Equal(t, "activity ACT-ABCDEFGHIJ: activity not found", err.Error())
}
