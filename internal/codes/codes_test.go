package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccess(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		want     bool
	}{
		{"exit code 0 is success", 0, true},
		{"exit code 1 is failure", 1, false},
		{"exit code 127 is failure", 127, false},
		{"exit code 999 is failure", 999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuccess(tt.exitCode))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		exitCode int
		want     string
	}{
		{0, "Success"},
		{1, "General failure"},
		{126, "Command found but not executable"},
		{127, "Command not found"},
		{999, "Unknown error"},
		{-1, "Unknown error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetErrorMessage(tt.exitCode), "GetErrorMessage(%d)", tt.exitCode)
	}
}
