package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rshade/holdview/internal/holdings"
)

// csvRow is one CSV record. Details beyond the first two are joined into extra_details.
type csvRow struct {
	Key          string          `csv:"key"`
	Name         string          `csv:"name"`
	Ticker       string          `csv:"ticker"`
	AssetClass   string          `csv:"asset_class"`
	AvgPrice     holdings.Amount `csv:"avg_price"`
	MarketPrice  holdings.Amount `csv:"market_price"`
	LatestChgPct holdings.Amount `csv:"latest_chg_pct"`
	MarketValue  holdings.Amount `csv:"market_value_ccy"`
	Detail1      string          `csv:"additional_detail_1"`
	Detail2      string          `csv:"additional_detail_2"`
	ExtraDetails string          `csv:"extra_details"`
}

func newCSVRow(e holdings.Entry) csvRow {
	h := e.Holding
	row := csvRow{
		Key:          e.Key.String(),
		Name:         h.Name,
		Ticker:       h.Ticker,
		AssetClass:   h.AssetClass,
		AvgPrice:     h.AvgPrice,
		MarketPrice:  h.MarketPrice,
		LatestChgPct: h.LatestChgPct,
		MarketValue:  h.MarketValue,
	}
	var extra []string
	for _, d := range h.Details {
		switch d.Index {
		case 1:
			row.Detail1 = d.Value
		case 2:
			row.Detail2 = d.Value
		default:
			extra = append(extra, DetailText(d))
		}
	}
	row.ExtraDetails = strings.Join(extra, "; ")
	return row
}

// renderCSV writes a header and one record per holding in list order.
func renderCSV(w io.Writer, book *holdings.Book) error {
	entries := book.Entries()
	rows := make([]csvRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, newCSVRow(e))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("encoding CSV: %w", err)
	}
	return nil
}
