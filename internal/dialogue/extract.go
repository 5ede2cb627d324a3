package dialogue

import (
	"regexp"
	"strconv"

	"takeorder/internal/menu"
	"takeorder/internal/order"
)

// fragmentPattern matches "digits, whitespace, word". Written-out
// numerals are deliberately not matched here; they are only honored
// where NormalizeNumber is invoked on an isolated token.
var fragmentPattern = regexp.MustCompile(`(\d+)\s+(\w+)`)

// Extract scans an utterance for quantity+item fragments and returns
// them as an insertion-ordered ledger, summing repeated mentions of the
// same item. Fragments whose word does not normalize to a catalog item
// are dropped from the result and reported in rejected so the caller
// can surface them once. An empty result is the caller's signal to ask
// the user to restate.
func Extract(catalog *menu.Catalog, utterance string) (extracted *order.Ledger, rejected []string) {
	extracted = order.New()
	for _, match := range fragmentPattern.FindAllStringSubmatch(utterance, -1) {
		qty, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		item := NormalizeItem(match[2])
		if !catalog.Has(item) {
			rejected = append(rejected, match[2])
			continue
		}
		// qty is non-negative by construction of the pattern
		_ = extracted.Add(item, qty)
	}
	return extracted, rejected
}
