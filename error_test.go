package docyard_test

import (
	"errors"
	"testing"

	"github.com/docyard/docyard"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docyard.Errorf(docyard.ENOTFOUND, "item %q not found", "abc")

	assert.Equal(t, docyard.ENOTFOUND, docyard.ErrorCode(err))
	assert.Equal(t, "item \"abc\" not found", docyard.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docyard.ErrorCode(nil))
}

func TestErrorCode_NonDomainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, docyard.EINTERNAL, docyard.ErrorCode(errors.New("disk on fire")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docyard.ErrorMessage(nil))
}

func TestErrorMessage_NonDomainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", docyard.ErrorMessage(errors.New("disk on fire")))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	inner := docyard.Errorf(docyard.EUNAVAILABLE, "clone failed")
	wrapped := errors.Join(errors.New("source docs"), inner)

	assert.Equal(t, docyard.EUNAVAILABLE, docyard.ErrorCode(wrapped))
}
