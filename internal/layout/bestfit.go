package layout

import (
	"sort"

	"planpress/internal/model"
)

// SelectBestFit picks the single best item that fits within maxWidth
// and maxHeight. Candidates are scanned in descending priority-rank
// order (ties keep input order) and the first acceptable fit wins.
//
// This is deliberately not a best-area-fit: a higher-rank item that
// fits is always preferred over a tighter-fitting lower-rank one, so
// the most detailed representation that satisfies the physical
// constraint is chosen. The caller is responsible for filtering to
// placeable items beforehand.
//
// Returns false when the list is empty or nothing fits.
func SelectBestFit(candidates []model.LayoutItem, maxWidth, maxHeight float64) (model.LayoutItem, bool) {
	byRank := make([]model.LayoutItem, len(candidates))
	copy(byRank, candidates)
	sort.SliceStable(byRank, func(i, j int) bool {
		return byRank[i].PriorityRank > byRank[j].PriorityRank
	})

	for _, item := range byRank {
		if item.Width <= maxWidth && item.Height <= maxHeight {
			return item, true
		}
	}
	return model.LayoutItem{}, false
}
