package holdings

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric holding field as received from the endpoint.
//
// The endpoint does not type its numeric fields, so an Amount accepts a JSON number,
// a numeric string, a free-form string or null. Free-form strings are kept as display
// text and report IsValid() == false.
type Amount struct {
	value decimal.Decimal
	text  string
	valid bool
}

// NewAmount creates a valid Amount from a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d, text: d.String(), valid: true}
}

// ParseAmount creates an Amount from its textual form.
// Text that is not a decimal number is retained for display only.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{text: s}
	}
	return Amount{value: d, text: s, valid: true}
}

// Decimal returns the numeric value and whether the amount holds one.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	return a.value, a.valid
}

// IsValid reports whether the amount carries a numeric value.
func (a Amount) IsValid() bool {
	return a.valid
}

// IsEmpty reports whether nothing was received for this field.
func (a Amount) IsEmpty() bool {
	return !a.valid && a.text == ""
}

// String returns the amount as it was received.
func (a Amount) String() string {
	if a.text != "" {
		return a.text
	}
	if a.valid {
		return a.value.String()
	}
	return ""
}

// StringFixed formats valid amounts with the given number of decimal places and
// falls back to the received text otherwise.
func (a Amount) StringFixed(places int32) string {
	if a.valid {
		return a.value.StringFixed(places)
	}
	return a.text
}

// Float64 returns the amount as a float, or 0 when it is not numeric.
func (a Amount) Float64() float64 {
	if !a.valid {
		return 0
	}
	f, _ := a.value.Float64()
	return f
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}

	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		// booleans, objects and arrays are kept verbatim for display
		*a = Amount{text: string(trimmed)}
		return nil
	}
	*a = Amount{value: d, text: string(trimmed), valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler. Numeric amounts are written as JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.valid:
		return []byte(a.value.String()), nil
	case a.text != "":
		return json.Marshal(a.text)
	default:
		return []byte("null"), nil
	}
}

// MarshalCSV implements the gocsv TypeMarshaller interface.
func (a Amount) MarshalCSV() (string, error) {
	return a.String(), nil
}
