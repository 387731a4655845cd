package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holdview/internal/holdings"
	"github.com/rshade/holdview/internal/render"
)

func holding(name, ticker, class, mv string) holdings.Holding {
	return holdings.Holding{
		Name:         name,
		Ticker:       ticker,
		AssetClass:   class,
		AvgPrice:     holdings.ParseAmount("10"),
		MarketPrice:  holdings.ParseAmount("12.5"),
		LatestChgPct: holdings.ParseAmount("1.25"),
		MarketValue:  holdings.ParseAmount(mv),
	}.WithDetails("first", "second")
}

func sampleBook() *holdings.Book {
	return holdings.NewBook([]holdings.Holding{
		holding("Apple", "AAPL", "Equity", "1000"),
		holding("Treasury", "UST", "Bond", "250.5"),
		holding("Microsoft", "MSFT", "Equity", "2000"),
	})
}

func countLines(s, substr string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Format
		wantErr bool
	}{
		{in: "", want: render.FormatAuto},
		{in: "auto", want: render.FormatAuto},
		{in: "TABLE", want: render.FormatTable},
		{in: "plain", want: render.FormatTable},
		{in: "md", want: render.FormatMarkdown},
		{in: "ndjson", want: render.FormatNDJSON},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := render.ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, render.FormatCSV.IsMachineReadable())
	assert.False(t, render.FormatStyled.IsMachineReadable())
}

func TestBuildLines_Empty(t *testing.T) {
	assert.Empty(t, render.BuildLines(holdings.NewBook(nil), render.ExpandAll))
}

func TestBuildLines_SingleHolding(t *testing.T) {
	book := holdings.NewBook([]holdings.Holding{holding("Apple", "AAPL", "Equity", "100")})

	lines := render.BuildLines(book, nil)

	require.Len(t, lines, 2)
	assert.Equal(t, render.LineGroup, lines[0].Kind)
	assert.Equal(t, render.LineHolding, lines[1].Kind)
	assert.Equal(t, holdings.Key("AAPL"), lines[1].Key)
	assert.False(t, lines[1].Expanded)
}

func TestBuildLines_Expanded(t *testing.T) {
	book := sampleBook()
	open := func(k holdings.Key) bool { return k == "MSFT" }

	lines := render.BuildLines(book, open)

	kinds := make([]render.LineKind, len(lines))
	for i, l := range lines {
		kinds[i] = l.Kind
	}
	assert.Equal(t, []render.LineKind{
		render.LineGroup, render.LineHolding, render.LineHolding, render.LineDetail, render.LineDetail,
		render.LineGroup, render.LineHolding,
	}, kinds)
	assert.True(t, lines[2].Expanded)
	assert.Equal(t, "Additional Detail 1: first", render.DetailText(lines[3].Detail))
	assert.Equal(t, "Bond", lines[5].Group.Label())
}

func TestNumberFormatter(t *testing.T) {
	plain := render.NewNumberFormatter("", 2)
	assert.Equal(t, "1,234.50", plain.Price(holdings.ParseAmount("1234.5")))
	assert.Equal(t, "+1.25", plain.Percent(holdings.ParseAmount("1.25")))
	assert.Equal(t, "-0.50", plain.Percent(holdings.ParseAmount("-0.5")))
	assert.Equal(t, "-", plain.Price(holdings.Amount{}))
	assert.Equal(t, "n/a", plain.Price(holdings.ParseAmount("n/a")))
	assert.Empty(t, plain.Currency())

	usd := render.NewNumberFormatter("usd", 2)
	assert.Equal(t, "USD", usd.Currency())
	assert.Equal(t, "$1,234.50", usd.MarketValue(holdings.ParseAmount("1234.5")))
	assert.Equal(t, "$0.00", usd.Total(decimal.Zero))
	assert.Equal(t, "-$1,234.57", usd.Total(decimal.RequireFromString("-1234.567")))

	eur := render.NewNumberFormatter("EUR", 2)
	assert.Equal(t, "€1,234.50", eur.MarketValue(holdings.ParseAmount("1234.5")))

	jpy := render.NewNumberFormatter("JPY", 2)
	assert.Equal(t, "¥1,235", jpy.Total(decimal.RequireFromString("1234.5")))
}

func TestNumberFormatter_LargeAmounts(t *testing.T) {
	usd := render.NewNumberFormatter("USD", 2)
	assert.Equal(t, "$100,000,000,000,000,000,000.00", usd.Total(decimal.New(1, 20)))
	assert.Equal(t, "-$100,000,000,000,000,000,000.00", usd.Total(decimal.New(-1, 20)))

	plain := render.NewNumberFormatter("", 2)
	assert.Equal(t, "12,345,678,901,234,567.89",
		plain.Total(decimal.RequireFromString("12345678901234567.89")))
	assert.Equal(t, "123,456,789,012,345,678,901.00",
		plain.Price(holdings.ParseAmount("123456789012345678901")))
	assert.Equal(t, "-0.10", plain.Price(holdings.ParseAmount("-0.1")))
	assert.Equal(t, "0.00", plain.Price(holdings.ParseAmount("-0.001")))
	assert.Equal(t, "999.00", plain.Price(holdings.ParseAmount("999")))

	precise := render.NewNumberFormatter("", 8)
	assert.Equal(t, "1,234,567,890.12345679", precise.Price(holdings.ParseAmount("1234567890.123456789")))
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, render.FormatTable, sampleBook(), render.Options{Precision: 2}))
	out := buf.String()

	assert.Contains(t, out, "MARKET VALUE (BASE CCY)")
	assert.Contains(t, out, "Equity (2 holdings)")
	assert.Contains(t, out, "Bond (1 holding)")
	assert.Less(t, strings.Index(out, "Equity"), strings.Index(out, "Bond"))
	assert.Equal(t, 3, countLines(out, render.ExpanderCollapsed))
	assert.NotContains(t, out, "Additional Detail")
	assert.Contains(t, out, "3 holdings in 2 asset classes, total market value 3,250.50")
}

func TestRender_TableExpandAll(t *testing.T) {
	var buf bytes.Buffer
	opts := render.Options{ExpandAll: true, Precision: 2, Footer: "source: snapshot"}
	require.NoError(t, render.Render(&buf, render.FormatTable, sampleBook(), opts))
	out := buf.String()

	assert.Equal(t, 3, countLines(out, render.ExpanderExpanded))
	assert.Equal(t, 3, countLines(out, "Additional Detail 1: first"))
	assert.Equal(t, 3, countLines(out, "Additional Detail 2: second"))
	assert.Contains(t, out, "source: snapshot")
}

func TestRender_EmptyBook(t *testing.T) {
	for _, format := range []render.Format{render.FormatTable, render.FormatStyled} {
		var buf bytes.Buffer
		require.NoError(t, render.Render(&buf, format, holdings.NewBook(nil), render.Options{}))
		assert.Equal(t, "No holdings.\n", buf.String(), format)
	}
}

func TestRender_Styled(t *testing.T) {
	var buf bytes.Buffer
	opts := render.Options{Precision: 2, BaseCurrency: "USD"}
	require.NoError(t, render.Render(&buf, render.FormatStyled, sampleBook(), opts))
	out := buf.String()

	assert.Contains(t, out, "Market Value (Base CCY)")
	assert.Contains(t, out, "Equity (2 holdings) · $3,000.00")
	assert.Contains(t, out, "$250.50")
	assert.Equal(t, 3, countLines(out, render.ExpanderCollapsed))
	assert.NotContains(t, out, "\x1b[", "plain styles emit no escape codes")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, render.FormatJSON, sampleBook(), render.Options{}))

	var out struct {
		Payload []map[string]any `json:"payload"`
		Groups  []struct {
			AssetClass  string      `json:"asset_class"`
			Count       int         `json:"count"`
			MarketValue json.Number `json:"market_value"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Payload, 3)
	assert.Equal(t, "AAPL", out.Payload[0]["ticker"])
	assert.Equal(t, "first", out.Payload[0]["additional_detail_1"])
	require.Len(t, out.Groups, 2)
	assert.Equal(t, "Equity", out.Groups[0].AssetClass)
	assert.Equal(t, 2, out.Groups[0].Count)
	assert.Equal(t, "3000", out.Groups[0].MarketValue.String())
}

func TestRender_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, render.FormatJSON, holdings.NewBook(nil), render.Options{}))
	assert.JSONEq(t, `{"payload":[],"groups":[]}`, buf.String())
}

func TestRender_NDJSON(t *testing.T) {
	book := holdings.NewBook([]holdings.Holding{
		holding("Apple", "AAPL", "Equity", "1"),
		holding("Apple again", "AAPL", "Equity", "2"),
	})
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, render.FormatNDJSON, book, render.Options{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "AAPL#2", second["key"])
	assert.Equal(t, "Apple again", second["name"])
}

func TestRender_CSV(t *testing.T) {
	h := holding("Apple, Inc.", "AAPL", "Equity", "1000").WithDetails("a", "b", "c")
	h.MarketPrice = holdings.ParseAmount("unknown")
	book := holdings.NewBook([]holdings.Holding{h})

	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, render.FormatCSV, book, render.Options{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"key,name,ticker,asset_class,avg_price,market_price,latest_chg_pct,market_value_ccy,"+
			"additional_detail_1,additional_detail_2,extra_details",
		lines[0])
	assert.Equal(t, `AAPL,"Apple, Inc.",AAPL,Equity,10,unknown,1.25,1000,a,b,Additional Detail 3: c`, lines[1])
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	opts := render.Options{ExpandAll: true, Precision: 2}
	require.NoError(t, render.Render(&buf, render.FormatMarkdown, sampleBook(), opts))
	out := buf.String()

	assert.Contains(t, out, "# Holdings")
	assert.Contains(t, out, "## Equity (2 holdings) · 3,000.00")
	assert.Contains(t, out, "| Name | Ticker | Asset Class |")
	assert.Contains(t, out, "| Apple | AAPL | Equity | 10.00 | 12.50 | +1.25 | 1,000.00 |")
	assert.Contains(t, out, "  - Additional Detail 2: second")
}

func TestRender_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, render.Render(&buf, render.FormatAuto, sampleBook(), render.Options{}))
	require.Error(t, render.Render(&buf, render.Format("xml"), sampleBook(), render.Options{}))
}

func TestLayout_AlignsNumericColumns(t *testing.T) {
	book := holdings.NewBook([]holdings.Holding{
		holding("A", "A", "Equity", "1"),
		holding("B", "B", "Equity", "1000000"),
	})
	f := render.NewNumberFormatter("", 2)
	lines := render.BuildLines(book, nil)
	layout := render.NewLayout(lines, f)

	first := layout.Row(render.Cells(lines[1], f))
	second := layout.Row(render.Cells(lines[2], f))
	assert.Equal(t, len(first), len(second))
	assert.True(t, strings.HasSuffix(first, " 1.00"))
	assert.Equal(t, layout.Width(), len([]rune(layout.Header())))
}
