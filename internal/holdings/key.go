package holdings

import (
	"strconv"
	"strings"
)

// Key identifies a holding within one Book.
// It is used for row identity and expansion state.
type Key string

// duplicateSeparator joins a repeated base key and its occurrence number.
const duplicateSeparator = "#"

// AssignKeys returns one unique key per holding, in list order.
//
// The base key is the ticker, then the name when the ticker is blank, then
// "row-<index>" when both are blank. A base seen before gets "#2", "#3", ...
// appended so that two holdings never share a key. The same input always
// yields the same keys.
func AssignKeys(holdings []Holding) []Key {
	keys, _ := assignKeys(holdings)
	return keys
}

// assignKeys also reports, per holding, whether its base key was used by an
// earlier holding.
func assignKeys(holdings []Holding) ([]Key, []bool) {
	keys := make([]Key, len(holdings))
	repeated := make([]bool, len(holdings))
	seen := make(map[string]int, len(holdings))
	taken := make(map[Key]bool, len(holdings))

	for i, h := range holdings {
		base := baseKey(h, i)
		seen[base]++

		key := Key(base)
		if n := seen[base]; n > 1 {
			key = Key(base + duplicateSeparator + strconv.Itoa(n))
			repeated[i] = true
		}
		// A literal ticker such as "ABC#2" can collide with a generated suffix.
		for taken[key] {
			seen[base]++
			key = Key(base + duplicateSeparator + strconv.Itoa(seen[base]))
		}

		taken[key] = true
		keys[i] = key
	}

	return keys, repeated
}

func baseKey(h Holding, index int) string {
	if ticker := strings.TrimSpace(h.Ticker); ticker != "" {
		return ticker
	}
	if name := strings.TrimSpace(h.Name); name != "" {
		return name
	}
	return "row-" + strconv.Itoa(index)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}
