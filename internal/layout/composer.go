package layout

import (
	"fmt"

	"github.com/charmbracelet/log"

	"planpress/internal/model"
)

// Composer orchestrates grouping, chunking, best-fit selection and
// panel geometry into a full sheet plan. Layout misses are per-group
// warnings, never fatal: the affected sheet or slot is simply absent
// from the plan and the caller decides whether that matters.
type Composer struct {
	log *log.Logger
}

// NewComposer returns a composer that reports skip decisions to the
// given logger.
func NewComposer(logger *log.Logger) *Composer {
	return &Composer{log: logger}
}

// ComposeSheetPlan produces the complete sheet plan for the given
// items: first one Single-template sheet per group whose best item
// fits the individual-sheet constraints, then combined multi-panel
// sheets covering clusters of up to four groups each.
//
// Individual sheets are emitted in sorted key order, then combined
// sheets in cluster order. An empty plan is not an error.
func (c *Composer) ComposeSheetPlan(items []model.LayoutItem, individualMaxW, individualMaxH float64) model.SheetPlan {
	groups := GroupByKey(items)
	sortedKeys := SortKeys(KeysInOrder(items))

	var plan model.SheetPlan

	// Individual pass: one full-page sheet per group.
	for _, key := range sortedKeys {
		item, ok := SelectBestFit(groups[key], individualMaxW, individualMaxH)
		if !ok {
			c.log.Warn("no item fits individual sheet, skipping group",
				"group", key, "candidates", len(groups[key]))
			continue
		}
		plan = append(plan, model.SheetEntry{
			Label:      individualLabel(key),
			Template:   model.TemplateSingle,
			Placements: []model.PanelPlacement{{Slot: model.SlotA, Item: item}},
		})
	}

	// Combined pass: chunk the sorted keys into clusters and fill one
	// multi-panel sheet per cluster.
	clusters := Chunk(sortedKeys, MaxClusterSize)
	for n, cluster := range clusters {
		template := templateForCluster(len(cluster))
		slots := template.Slots()
		label := fmt.Sprintf("Combined - Sheet %d", n+1)

		var placements []model.PanelPlacement
		for i, key := range cluster {
			box, err := PanelBox(template, slots[i])
			if err != nil {
				// Unreachable: cluster size never exceeds the slot count.
				panic(err)
			}
			item, ok := SelectBestFit(groups[key], box.Width, box.Height)
			if !ok {
				c.log.Warn("no item fits combined panel, leaving slot empty",
					"sheet", label, "slot", slots[i], "group", key)
				continue
			}
			placements = append(placements, model.PanelPlacement{Slot: slots[i], Item: item})
		}

		if len(placements) == 0 {
			c.log.Warn("no panels filled, skipping combined sheet", "sheet", label)
			continue
		}
		plan = append(plan, model.SheetEntry{Label: label, Template: template, Placements: placements})
	}

	return plan
}

// templateForCluster maps cluster size to the combined-sheet template.
// Only a cluster of exactly two gets the two-panel layout; clusters of
// one or three use the four-panel template with trailing slots empty.
func templateForCluster(size int) model.SheetTemplate {
	if size == 2 {
		return model.TemplateTwoPanel
	}
	return model.TemplateFourPanel
}

// individualLabel derives the deterministic sheet label for a group.
func individualLabel(key string) string {
	if key == "" {
		key = "Unnamed"
	}
	return "Individual - " + key
}
