package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rshade/holdview/internal/holdings"
)

// jsonOutput mirrors the endpoint envelope, with the grouping added alongside.
type jsonOutput struct {
	Payload []holdings.Holding `json:"payload"`
	Groups  []jsonGroup        `json:"groups"`
}

type jsonGroup struct {
	AssetClass  string      `json:"asset_class"`
	Count       int         `json:"count"`
	MarketValue json.Number `json:"market_value"`
}

// ndjsonHolding is one NDJSON line: the holding's wire fields plus its identity key.
type ndjsonHolding struct {
	Key     holdings.Key
	Holding holdings.Holding
}

func (n ndjsonHolding) MarshalJSON() ([]byte, error) {
	fields, err := json.Marshal(n.Holding)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(fields, &obj); err != nil {
		return nil, err
	}
	key, err := json.Marshal(n.Key)
	if err != nil {
		return nil, err
	}
	obj["key"] = key
	return json.Marshal(obj)
}

func renderJSON(w io.Writer, book *holdings.Book) error {
	out := jsonOutput{
		Payload: book.Holdings(),
		Groups:  make([]jsonGroup, 0, len(book.Groups())),
	}
	if out.Payload == nil {
		out.Payload = []holdings.Holding{}
	}
	for _, g := range book.Groups() {
		out.Groups = append(out.Groups, jsonGroup{
			AssetClass:  g.AssetClass,
			Count:       g.Len(),
			MarketValue: json.Number(g.TotalMarketValue.String()),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderNDJSON(w io.Writer, book *holdings.Book) error {
	encoder := json.NewEncoder(w)
	for _, e := range book.Entries() {
		if err := encoder.Encode(ndjsonHolding{Key: e.Key, Holding: e.Holding}); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}
