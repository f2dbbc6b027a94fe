// Package layout implements the sheet composition and pagination
// engine: grouping, chunking, best-fit selection, panel geometry, and
// the orchestration that turns a flat item list into a sheet plan.
// All algorithms are pure functions over in-memory data.
package layout

import (
	"regexp"
	"sort"
	"strconv"

	"planpress/internal/model"
)

// GroupByKey partitions items into named groups by their group key.
// Items preserve their relative input order within each group's list.
// An item with an empty key forms its own implicit group keyed by the
// empty string.
func GroupByKey(items []model.LayoutItem) map[string][]model.LayoutItem {
	groups := make(map[string][]model.LayoutItem)
	for _, item := range items {
		groups[item.GroupKey] = append(groups[item.GroupKey], item)
	}
	return groups
}

// KeysInOrder returns the distinct group keys in order of first
// appearance in the item list. This is the "original relative order"
// that SortKeys preserves for equal-rank keys.
func KeysInOrder(items []model.LayoutItem) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, item := range items {
		if !seen[item.GroupKey] {
			seen[item.GroupKey] = true
			keys = append(keys, item.GroupKey)
		}
	}
	return keys
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// RankKey extracts the first maximal run of decimal digits found
// anywhere in the key and parses it as a non-negative integer.
// Keys without digits rank 0, so "Roof" sorts ahead of "Level 1".
// That ordering is intentional behavior and must not be changed.
func RankKey(key string) int {
	run := digitRun.FindString(key)
	if run == "" {
		return 0
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		// Digit run too long to fit in an int; treat like a non-numeric key.
		return 0
	}
	return n
}

// SortKeys returns the keys stably sorted ascending by RankKey.
// Ties keep their original relative order, not lexical order: two
// differently-named keys with the same embedded number stay in input
// order.
func SortKeys(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return RankKey(sorted[i]) < RankKey(sorted[j])
	})
	return sorted
}
