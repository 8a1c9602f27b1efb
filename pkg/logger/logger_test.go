package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	t.Run("error goes under error key", func(t *testing.T) {
		f := fields([]any{errors.New("boom")})
		assert.Equal(t, "boom", f["error"])
	})

	t.Run("key value pairs", func(t *testing.T) {
		f := fields([]any{"order_id", "o-1", "items", 3})
		assert.Equal(t, "o-1", f["order_id"])
		assert.Equal(t, 3, f["items"])
	})

	t.Run("mixed args", func(t *testing.T) {
		f := fields([]any{"user_id", "u-1", errors.New("nope"), 42})
		assert.Equal(t, "u-1", f["user_id"])
		assert.Equal(t, "nope", f["error"])
		assert.Equal(t, 42, f["args"])
	})

	t.Run("trailing string", func(t *testing.T) {
		f := fields([]any{"lonely"})
		assert.Equal(t, "lonely", f["args"])
	})
}
