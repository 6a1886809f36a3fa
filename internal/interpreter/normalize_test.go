package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"priority", FieldPriority},
		{"Priority", FieldPriority},
		{"URGENCY", FieldPriority},
		{"prio", FieldPriority},
		{"name", FieldTitle},
		{"task-name", FieldTitle},
		{"due date", FieldScheduledDate},
		{"due-date", FieldScheduledDate},
		{"when", FieldScheduledDate},
		{"time", FieldScheduledTime},
		{"length", FieldDuration},
		{"where", FieldLocation},
		{"state", FieldStatus},
		{"bogus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeField(tt.name), "NormalizeField(%q)", tt.name)
	}
}

func TestNormalizeValuePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"high", "high"},
		{"HIGH", "high"},
		{"urgent", "critical"},
		{"important", "high"},
		{"normal", "medium"},
		{"minor", "low"},
		// Unrecognized input silently defaults to medium.
		{"whatever", "medium"},
		{"", "medium"},
	}

	for _, tt := range tests {
		got, err := NormalizeValue(FieldPriority, tt.raw, anchor)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "priority %q", tt.raw)
	}
}

func TestNormalizeValueStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"done", "completed"},
		{"finished", "completed"},
		{"in progress", "in_progress"},
		{"working", "in_progress"},
		{"todo", "pending"},
		{"open", "pending"},
		{"canceled", "cancelled"},
	}

	for _, tt := range tests {
		got, err := NormalizeValue(FieldStatus, tt.raw, anchor)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "status %q", tt.raw)
	}

	// Unknown status words pass through and are rejected by validation
	// instead of being silently corrected.
	got, err := NormalizeValue(FieldStatus, "procrastinating", anchor)
	require.NoError(t, err)
	ok, msg := ValidateFieldValue(FieldStatus, got)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestNormalizeValueDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"45 minutes", "45"},
		{"45 mins", "45"},
		{"2 hours", "120"},
		{"1 hr", "60"},
		{"90", "90"},
		// Unparsable durations default to 30 minutes.
		{"a while", "30"},
		{"", "30"},
	}

	for _, tt := range tests {
		got, err := NormalizeValue(FieldDuration, tt.raw, anchor)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "duration %q", tt.raw)
	}
}

func TestNormalizeValueDate(t *testing.T) {
	t.Parallel()

	got, err := NormalizeValue(FieldScheduledDate, "tomorrow", anchor)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", got)

	_, err = NormalizeValue(FieldScheduledDate, "someday", anchor)
	require.Error(t, err)
}

func TestNormalizeValueTime(t *testing.T) {
	t.Parallel()

	got, err := NormalizeValue(FieldScheduledTime, "3pm", anchor)
	require.NoError(t, err)
	assert.Equal(t, "15:00", got)
}

func TestValidateFieldValue(t *testing.T) {
	t.Parallel()

	ok, _ := ValidateFieldValue(FieldPriority, "high")
	assert.True(t, ok)
	ok, _ = ValidateFieldValue(FieldPriority, "extreme")
	assert.False(t, ok)

	ok, _ = ValidateFieldValue(FieldDuration, "30")
	assert.True(t, ok)
	ok, _ = ValidateFieldValue(FieldDuration, "0")
	assert.False(t, ok)
	ok, _ = ValidateFieldValue(FieldDuration, "-5")
	assert.False(t, ok)

	ok, _ = ValidateFieldValue(FieldTitle, "Buy groceries")
	assert.True(t, ok)
	ok, _ = ValidateFieldValue(FieldTitle, "")
	assert.False(t, ok)

	long := make([]byte, MaxTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}
	ok, _ = ValidateFieldValue(FieldTitle, string(long))
	assert.False(t, ok)

	ok, _ = ValidateFieldValue(FieldScheduledDate, "2026-03-05")
	assert.True(t, ok)
	ok, _ = ValidateFieldValue(FieldScheduledDate, "March 5")
	assert.False(t, ok)
}
