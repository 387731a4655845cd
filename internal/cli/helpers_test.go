package cli_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rshade/holdview/internal/cli"
	"github.com/rshade/holdview/internal/config"
)

const holdingsPayload = `{"payload":[
	{"name":"Apple","ticker":"AAPL","asset_class":"Equity","avg_price":120.5,"market_price":150.25,
	 "latest_chg_pct":1.5,"market_value_ccy":1502.5,"additional_detail_1":"Technology","additional_detail_2":"NASDAQ"},
	{"name":"Treasury 10Y","ticker":"UST10","asset_class":"Bond","avg_price":"99.1","market_price":"99.0",
	 "latest_chg_pct":"-0.2","market_value_ccy":"990","additional_detail_1":"Government","additional_detail_2":"USD"}
]}`

// isolate points every holdview path at a temporary home and resets global config.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOLDVIEW_HOME", home)
	t.Setenv("HOLDVIEW_CONFIG", "")
	t.Setenv("HOLDVIEW_URL", "")
	t.Setenv("HOLDVIEW_OUTPUT", "")
	t.Setenv("HOLDVIEW_BASE_CURRENCY", "")
	t.Setenv("HOLDVIEW_CACHE_ENABLED", "")
	t.Setenv("HOLDVIEW_LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")
	t.Chdir(home)

	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// holdingsServer serves holdingsPayload until failing is set, then answers 500.
type holdingsServer struct {
	*httptest.Server
	failing    atomic.Bool
	lastAPIKey atomic.Value
	requests   atomic.Int32
}

func newHoldingsServer(t *testing.T) *holdingsServer {
	t.Helper()
	s := &holdingsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastAPIKey.Store(r.Header.Get("X-Api-Key"))
		if s.failing.Load() {
			http.Error(w, "upstream unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(holdingsPayload))
	}))
	t.Cleanup(s.Close)
	return s
}
