package holdings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Wire field names of a holding record.
const (
	FieldName         = "name"
	FieldTicker       = "ticker"
	FieldAssetClass   = "asset_class"
	FieldAvgPrice     = "avg_price"
	FieldMarketPrice  = "market_price"
	FieldLatestChgPct = "latest_chg_pct"
	FieldMarketValue  = "market_value_ccy"

	// detailFieldPrefix prefixes every additional detail field, followed by its 1-based index.
	detailFieldPrefix = "additional_detail_"

	// minDetailFields is the number of detail lines every holding exposes, even if absent.
	minDetailFields = 2
)

// Detail is one supplementary field shown only when a holding row is expanded.
type Detail struct {
	// Index is the 1-based position taken from the wire field name.
	Index int

	// Value is the displayed value.
	Value string

	// literal is set when Value holds raw JSON (number, bool, object) rather than a string.
	literal bool
}

// Label returns the display label of the detail, e.g. "Additional Detail 1".
func (d Detail) Label() string {
	return fmt.Sprintf("Additional Detail %d", d.Index)
}

// Field returns the wire field name of the detail.
func (d Detail) Field() string {
	return detailFieldPrefix + strconv.Itoa(d.Index)
}

// Holding is one financial position record.
type Holding struct {
	Name         string
	Ticker       string
	AssetClass   string
	AvgPrice     Amount
	MarketPrice  Amount
	LatestChgPct Amount
	MarketValue  Amount

	// Details holds every additional_detail_N field ordered by N.
	// At least additional_detail_1 and additional_detail_2 are present after decoding.
	Details []Detail
}

// Detail returns the detail with the given 1-based index.
func (h Holding) Detail(index int) (Detail, bool) {
	for _, d := range h.Details {
		if d.Index == index {
			return d, true
		}
	}
	return Detail{}, false
}

// WithDetails returns a copy of h with string details set in order, starting at index 1.
func (h Holding) WithDetails(values ...string) Holding {
	h.Details = make([]Detail, 0, len(values))
	for i, v := range values {
		h.Details = append(h.Details, Detail{Index: i + 1, Value: v})
	}
	h.Details = normalizeDetails(h.Details)
	return h
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Fields are decoded leniently: text fields accept any JSON scalar, numeric fields accept
// numbers or strings, and unknown fields other than additional details are ignored.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding holding: %w", err)
	}

	var out Holding
	out.Name = rawText(raw[FieldName])
	out.Ticker = rawText(raw[FieldTicker])
	out.AssetClass = rawText(raw[FieldAssetClass])

	amounts := []struct {
		field  string
		target *Amount
	}{
		{FieldAvgPrice, &out.AvgPrice},
		{FieldMarketPrice, &out.MarketPrice},
		{FieldLatestChgPct, &out.LatestChgPct},
		{FieldMarketValue, &out.MarketValue},
	}
	for _, am := range amounts {
		value, ok := raw[am.field]
		if !ok {
			continue
		}
		if err := am.target.UnmarshalJSON(value); err != nil {
			return fmt.Errorf("decoding %s: %w", am.field, err)
		}
	}

	for field, value := range raw {
		suffix, ok := strings.CutPrefix(field, detailFieldPrefix)
		if !ok {
			continue
		}
		// Only canonical numbers: "additional_detail_01" is not a second detail 1.
		index, err := strconv.Atoi(suffix)
		if err != nil || index < 1 || strconv.Itoa(index) != suffix {
			continue
		}
		out.Details = append(out.Details, Detail{
			Index:   index,
			Value:   rawText(value),
			literal: !isJSONString(value) && !isJSONNull(value),
		})
	}
	out.Details = normalizeDetails(out.Details)

	*h = out
	return nil
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (h Holding) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		FieldName:         h.Name,
		FieldTicker:       h.Ticker,
		FieldAssetClass:   h.AssetClass,
		FieldAvgPrice:     h.AvgPrice,
		FieldMarketPrice:  h.MarketPrice,
		FieldLatestChgPct: h.LatestChgPct,
		FieldMarketValue:  h.MarketValue,
	}
	for _, d := range h.Details {
		if d.literal && json.Valid([]byte(d.Value)) {
			out[d.Field()] = json.RawMessage(d.Value)
			continue
		}
		out[d.Field()] = d.Value
	}
	return json.Marshal(out)
}

// normalizeDetails sorts details by index and fills in the mandatory leading details.
func normalizeDetails(details []Detail) []Detail {
	for i := 1; i <= minDetailFields; i++ {
		found := false
		for _, d := range details {
			if d.Index == i {
				found = true
				break
			}
		}
		if !found {
			details = append(details, Detail{Index: i})
		}
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Index < details[j].Index
	})
	return details
}

// rawText returns a JSON string's value, or the literal text of any other JSON value.
// Null and absent values become the empty string.
func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isJSONNull(trimmed) {
		return ""
	}
	if isJSONString(trimmed) {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
