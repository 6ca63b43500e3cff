package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("create part: %w", Conflict("slot %s already taken", "LA"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, TypeConflict, appErr.Type)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "slot LA already taken", appErr.Message)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	assert.True(t, Is(NotFound("no fixture"), TypeNotFound))
	assert.False(t, Is(Validation("bad id"), TypeNotFound))
	assert.False(t, Is(nil, TypeNotFound))
}
