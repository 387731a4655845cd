package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetectOutputMode(t *testing.T) {
	tests := []struct {
		name       string
		tty        bool
		env        map[string]string
		forceColor bool
		noColor    bool
		plain      bool
		expected   OutputMode
	}{
		{name: "terminal", tty: true, expected: OutputModeInteractive},
		{name: "pipe", tty: false, expected: OutputModePlain},
		{name: "pipe with force color", tty: false, forceColor: true, expected: OutputModeStyled},
		{name: "plain flag", tty: true, plain: true, expected: OutputModePlain},
		{name: "no-color flag keeps the terminal interactive", tty: true, noColor: true, expected: OutputModeInteractive},
		{name: "NO_COLOR keeps the terminal interactive", tty: true, env: map[string]string{"NO_COLOR": "1"}, expected: OutputModeInteractive},
		{name: "no-color flag in CI", tty: true, noColor: true, env: map[string]string{"CI": "true"}, expected: OutputModePlain},
		{name: "no-color flag beats force color", tty: false, noColor: true, forceColor: true, expected: OutputModePlain},
		{name: "dumb terminal", tty: true, env: map[string]string{"TERM": "dumb"}, expected: OutputModePlain},
		{name: "CI terminal", tty: true, env: map[string]string{"CI": "true"}, expected: OutputModeStyled},
		{
			name:       "NO_COLOR beats force color",
			tty:        false,
			env:        map[string]string{"NO_COLOR": "1"},
			forceColor: true,
			expected:   OutputModePlain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectOutputMode(terminal{isTTY: tt.tty, getenv: envOf(tt.env)}, tt.forceColor, tt.noColor, tt.plain)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestColorDisabled(t *testing.T) {
	assert.False(t, colorDisabled(envOf(nil), false))
	assert.True(t, colorDisabled(envOf(nil), true))
	assert.True(t, colorDisabled(envOf(map[string]string{"NO_COLOR": "1"}), false))
}

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "interactive", OutputModeInteractive.String())
	assert.Equal(t, "styled", OutputModeStyled.String())
	assert.Equal(t, "plain", OutputModePlain.String())
}
