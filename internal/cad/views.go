package cad

import (
	"strings"

	"github.com/charmbracelet/log"

	"planpress/internal/model"
)

// scaleDelimiter separates the level name from the scale suffix in
// view names, e.g. "Level 2 - Scale 96".
const scaleDelimiter = " - Scale "

// GroupKeyFromName derives the grouping key (level name) from a view
// name by splitting on the scale delimiter and taking the left-hand
// part. Names without the delimiter yield the empty key, which forms
// an implicit single-item group downstream.
func GroupKeyFromName(name string) string {
	if idx := strings.Index(name, scaleDelimiter); idx >= 0 {
		return name[:idx]
	}
	return ""
}

// ItemFromView converts a host view into a layout item. The item's
// footprint is the crop extent divided by the view scale; a view with
// a non-positive scale is treated as scale 1.
func ItemFromView(v View) model.LayoutItem {
	scale := v.Scale
	if scale <= 0 {
		scale = 1
	}
	return model.LayoutItem{
		ID:           v.ID,
		Label:        v.Name,
		GroupKey:     GroupKeyFromName(v.Name),
		PriorityRank: v.Scale,
		Width:        v.CropWidth / float64(scale),
		Height:       v.CropHeight / float64(scale),
		Placeable:    v.Placeable,
	}
}

// CollectItems queries the document's views, applies the job's
// view-type filters and the max-views cap, and converts the survivors
// into layout items. Only placeable views pass; skipped views are
// reported at debug level. A nil or empty viewTypes list accepts all
// view types; maxViews of 0 means no cap.
func CollectItems(doc Document, viewTypes []string, maxViews int, logger *log.Logger) []model.LayoutItem {
	accepted := make(map[string]bool, len(viewTypes))
	for _, vt := range viewTypes {
		accepted[vt] = true
	}

	var items []model.LayoutItem
	for _, v := range doc.Views() {
		if len(accepted) > 0 && !accepted[v.ViewType] {
			continue
		}
		if !v.Placeable {
			logger.Debug("skipping non-placeable view", "view", v.Name)
			continue
		}
		items = append(items, ItemFromView(v))
	}

	if maxViews > 0 && len(items) > maxViews {
		logger.Debug("truncating view set", "cap", maxViews, "total", len(items))
		items = items[:maxViews]
	}
	return items
}
