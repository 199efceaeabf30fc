package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWalksChain(t *testing.T) {
	base := New(DuplicateApplication, "already applied")
	wrapped := fmt.Errorf("submit: %w", base)

	assert.Equal(t, DuplicateApplication, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, DuplicateApplication))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, "already applied", MessageOf(wrapped))
}

func TestKindOfUnknownIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "Unexpected server error", MessageOf(err))
	assert.False(t, IsKind(nil, Internal))
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:443: i/o timeout")
	err := Wrap(UpstreamError, "resume temporarily unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "resume temporarily unavailable", MessageOf(err))
	assert.Contains(t, err.Error(), "i/o timeout")
}
