package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusInitiated, StatusProcessing, true},
		{StatusProcessing, StatusSuccess, true},
		{StatusProcessing, StatusFailed, true},
		{StatusSuccess, StatusRefunded, true},

		{StatusInitiated, StatusSuccess, false},
		{StatusInitiated, StatusFailed, false},
		{StatusProcessing, StatusInitiated, false},
		{StatusSuccess, StatusFailed, false},
		{StatusSuccess, StatusProcessing, false},
		{StatusFailed, StatusSuccess, false},
		{StatusFailed, StatusRefunded, false},
		{StatusRefunded, StatusSuccess, false},
		{StatusSuccess, StatusSuccess, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusInitiated))
	assert.False(t, IsTerminal(StatusProcessing))
	assert.True(t, IsTerminal(StatusSuccess))
	assert.True(t, IsTerminal(StatusFailed))
	assert.True(t, IsTerminal(StatusRefunded))
}
