package deck

import (
	"sort"
	"strconv"
	"strings"
)

// SortKey derives the numeric ordering hint from a record name: the text
// before the last "." parsed as a base-10 integer ("12.png" → 12). ok is false
// when there is no "." or the prefix is not an integer.
func SortKey(name string) (key int64, ok bool) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(name[:dot]), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders names numerically by SortKey. Names with a numeric key come
// first; ties and names without one fall back to lexicographic order.
func Less(a, b string) bool {
	ka, okA := SortKey(a)
	kb, okB := SortKey(b)
	switch {
	case okA && okB:
		if ka != kb {
			return ka < kb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// Sort orders records in place by Less on their names.
func Sort(records []ImageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i].Name, records[j].Name)
	})
}
