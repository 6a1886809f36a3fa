package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePriority(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"low", "medium", "high", "critical"} {
		assert.NoError(t, ValidatePriority(value), value)
	}
	assert.Error(t, ValidatePriority("urgent"))
	assert.Error(t, ValidatePriority(""))
}

func TestValidateTaskStatus(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"pending", "in_progress", "completed", "cancelled"} {
		assert.NoError(t, ValidateTaskStatus(value), value)
	}
	assert.Error(t, ValidateTaskStatus("done"))
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "add task", SanitizeText("  add task  "))
	assert.Equal(t, "line one\nline two", SanitizeText("line one\nline two"))
	assert.Equal(t, "no bell", SanitizeText("no\x07 bell"))
}

func TestStructTagValidators(t *testing.T) {
	t.Parallel()

	type payload struct {
		Priority string `validate:"omitempty,priority"`
		Status   string `validate:"omitempty,task_status"`
	}

	require.NoError(t, Validate.Struct(payload{Priority: "high", Status: "pending"}))
	require.NoError(t, Validate.Struct(payload{}))
	assert.Error(t, Validate.Struct(payload{Priority: "extreme"}))
	assert.Error(t, Validate.Struct(payload{Status: "paused"}))
}
