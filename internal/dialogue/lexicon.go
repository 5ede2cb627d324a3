package dialogue

import (
	"strconv"
	"strings"
)

// synonym maps a lowercase alias to the canonical menu name. The table
// is a slice so the substring fallback scans in a fixed order.
type synonym struct {
	key       string
	canonical string
}

var synonyms = []synonym{
	{"pizza", "Pizza"},
	{"pasta", "Pasta"},
	{"salad", "Salad"},
	{"samosa", "Samosa"},
	{"custard", "Custard"},
}

var numberWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"seven": 7,
	"eight": 8,
	"nine":  9,
	"ten":   10,
}

// NormalizeItem resolves a user token to a canonical menu name. Exact
// case-insensitive match wins; otherwise the first synonym key contained
// in the token wins; otherwise the lowercased trimmed token comes back
// unchanged, which a subsequent catalog lookup will reject.
func NormalizeItem(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	for _, s := range synonyms {
		if s.key == lower {
			return s.canonical
		}
	}
	for _, s := range synonyms {
		if strings.Contains(lower, s.key) {
			return s.canonical
		}
	}
	return lower
}

// NormalizeNumber converts a numeral word (one..ten) or a base-10
// integer literal. The second return is false when the token holds no
// usable quantity.
func NormalizeNumber(token string) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	if n, ok := numberWords[lower]; ok {
		return n, true
	}
	n, err := strconv.Atoi(lower)
	if err != nil {
		return 0, false
	}
	return n, true
}
