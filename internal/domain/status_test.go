package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus_CanonicalValues(t *testing.T) {
	for _, s := range []string{"pending", "processing", "successful", "failed", "reversed"} {
		status, ok := NormalizeStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, Status(s), status)
	}
}

func TestNormalizeStatus_Aliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"success", StatusSuccessful},
		{"SUCCESS", StatusSuccessful},
		{"completed", StatusSuccessful},
		{"paid", StatusSuccessful},
		{"initiated", StatusPending},
		{"queued", StatusPending},
		{"in_progress", StatusProcessing},
		{"failure", StatusFailed},
		{"declined", StatusFailed},
		{"refunded", StatusReversed},
		{" Successful ", StatusSuccessful}, // whitespace and case are ignored
	}

	for _, tt := range tests {
		status, ok := NormalizeStatus(tt.raw)
		assert.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, status, tt.raw)
	}
}

func TestNormalizeStatus_Unknown(t *testing.T) {
	status, ok := NormalizeStatus("exploded")
	assert.False(t, ok)
	assert.Equal(t, StatusPending, status)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusSuccessful.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusReversed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindTransfer.Valid())
	assert.True(t, KindPayout.Valid())
	assert.True(t, KindTransaction.Valid())
	assert.False(t, Kind("wallet").Valid())
	assert.False(t, Kind("").Valid())
}
