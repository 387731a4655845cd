package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveStyles(t *testing.T) {
	assert.Nil(t, interactiveStyles(true), "colored view uses the default palette")

	styles := interactiveStyles(false)
	require.NotNil(t, styles)
	assert.False(t, styles.Selected.GetBold())
	assert.False(t, styles.Header.GetBold())
	assert.Equal(t, 0, styles.StatusBar.GetPaddingTop())
	assert.Equal(t, "AAPL", styles.Warning.Render("AAPL"))
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{in: "X-Api-Key: secret", wantName: "X-Api-Key", wantValue: "secret"},
		{in: "Accept=text/plain", wantName: "Accept", wantValue: "text/plain"},
		{in: "Authorization: Bearer a:b", wantName: "Authorization", wantValue: "Bearer a:b"},
		{in: "no separator", wantErr: true},
		{in: ": value", wantErr: true},
		{in: "Bad Name: value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, value, err := parseHeader(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}
