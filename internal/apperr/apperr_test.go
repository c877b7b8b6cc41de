package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", Expired("token expired"))
	assert.True(t, IsKind(err, KindExpiredCredential))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "missing", NotFound("missing").Error())

	wrapped := Upstream("broker publish failed", errors.New("broken pipe"))
	assert.Equal(t, "broker publish failed: broken pipe", wrapped.Error())
	assert.Equal(t, "broken pipe", errors.Unwrap(wrapped).Error())
}
