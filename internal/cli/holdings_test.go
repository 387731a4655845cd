package cli_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holdview/internal/cli"
	"github.com/rshade/holdview/internal/client"
)

func TestHoldings_PlainTableWhenNotATerminal(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	stdout, _, err := execute(t, "holdings", "--url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "Equity (1 holding)")
	assert.Contains(t, stdout, "Bond (1 holding)")
	assert.Contains(t, stdout, "Apple")
	assert.Contains(t, stdout, "2 holdings in 2 asset classes")
	assert.NotContains(t, stdout, "Additional Detail")
	assert.Less(t, strings.Index(stdout, "Equity"), strings.Index(stdout, "Bond"))
}

func TestHoldings_ExpandAll(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	stdout, _, err := execute(t, "holdings", "--url", srv.URL, "--expand-all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Additional Detail 1: Technology")
	assert.Contains(t, stdout, "Additional Detail 2: USD")
}

func TestHoldings_JSON(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	stdout, _, err := execute(t, "holdings", "--url", srv.URL, "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Payload []map[string]any `json:"payload"`
		Groups  []struct {
			AssetClass string `json:"asset_class"`
			Count      int    `json:"count"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Len(t, doc.Payload, 2)
	require.Len(t, doc.Groups, 2)
	assert.Equal(t, "Equity", doc.Groups[0].AssetClass)
	assert.Equal(t, 1, doc.Groups[1].Count)
}

func TestHoldings_FilterNDJSON(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	stdout, _, err := execute(t, "holdings", "--url", srv.URL, "-o", "ndjson", "--filter", "bond")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"UST10"`)
}

func TestHoldings_LocalSourceCSV(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "holdings.json")
	require.NoError(t, os.WriteFile(path, []byte(holdingsPayload), 0o600))

	stdout, _, err := execute(t, "holdings", "--source", path, "--output", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "key,name,ticker"))
	assert.Contains(t, lines[1], "AAPL,Apple")
}

func TestHoldings_SendsConfiguredHeaders(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	_, _, err := execute(t, "holdings", "--url", srv.URL, "-o", "json", "-H", "X-Api-Key: secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", srv.lastAPIKey.Load())
}

func TestHoldings_FetchFailureExitsNonZero(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)
	srv.failing.Store(true)

	stdout, _, err := execute(t, "holdings", "--url", srv.URL, "--no-cache")
	require.Error(t, err)
	assert.Empty(t, stdout)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cli.ExitCodeFetchFailed, exitErr.Code)
	assert.ErrorIs(t, err, client.ErrStatus)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestHoldings_FallsBackToSnapshot(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	_, _, err := execute(t, "holdings", "--url", srv.URL, "-o", "json")
	require.NoError(t, err)

	srv.failing.Store(true)
	stdout, stderr, err := execute(t, "holdings", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Apple")
	assert.Contains(t, stdout, "stale snapshot from")
	assert.Contains(t, stderr, "Warning: showing stale snapshot")
}

func TestHoldings_Offline(t *testing.T) {
	isolate(t)
	srv := newHoldingsServer(t)

	_, _, err := execute(t, "holdings", "--url", srv.URL, "--offline")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrNoSnapshot)
	assert.Equal(t, int32(0), srv.requests.Load())

	_, _, err = execute(t, "holdings", "--url", srv.URL, "-o", "json")
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "holdings", "--url", srv.URL, "--offline", "-o", "ndjson")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 2)
	assert.Contains(t, stderr, "Showing cached snapshot")
	assert.Equal(t, int32(1), srv.requests.Load())
}

func TestHoldings_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown format",
			args:    []string{"--output", "xml"},
			wantErr: "unsupported output format",
		},
		{
			name:    "unknown currency",
			env:     map[string]string{"HOLDVIEW_BASE_CURRENCY": "XYZ"},
			wantErr: "invalid configuration",
		},
		{
			name:    "bad scheme",
			args:    []string{"--url", "ftp://example.com/holdings"},
			wantErr: "source.url scheme",
		},
		{
			name:    "url and source",
			args:    []string{"--url", "https://example.com", "--source", "x.json"},
			wantErr: "none of the others can be",
		},
		{
			name:    "offline with a local file",
			args:    []string{"--offline", "--source", "x.json"},
			wantErr: "none of the others can be",
		},
		{
			name:    "bad header",
			args:    []string{"-H", "no separator"},
			wantErr: "invalid header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, _, err := execute(t, append([]string{"holdings"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var exitErr *cli.ExitError
			assert.False(t, errors.As(err, &exitErr), "input errors are reported before any fetch")
		})
	}
}

func TestRootVersion(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "holdview test (commit "))
}
