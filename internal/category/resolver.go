// Package category merges shared default categories with a user's own and
// resolves category references to display metadata.
package category

import "finanzas/internal/core"

// Info is the display metadata a resolved category reference yields.
type Info struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Fallback is returned for missing or unknown category references.
// Resolution is a total function: it never fails.
var Fallback = Info{Name: "Otros", Icon: "🔹", Color: "#94a3b8"}

// Resolver looks up categories by id over a merged default + user list.
type Resolver struct {
	merged []core.Category
	byID   map[string]Info
}

// NewResolver builds a resolver over the merged category list: all shared
// defaults followed by the user's own categories. No deduplication by name
// happens; on duplicate ids the first entry wins.
func NewResolver(defaults, owned []core.Category) *Resolver {
	merged := make([]core.Category, 0, len(defaults)+len(owned))
	merged = append(merged, defaults...)
	merged = append(merged, owned...)

	byID := make(map[string]Info, len(merged))
	for _, c := range merged {
		if _, seen := byID[c.ID]; seen {
			continue
		}
		byID[c.ID] = Info{Name: c.Name, Icon: c.Icon, Color: c.Color}
	}
	return &Resolver{merged: merged, byID: byID}
}

// Resolve maps a category reference to display metadata, falling back for
// empty or unknown ids.
func (r *Resolver) Resolve(categoryID string) Info {
	if categoryID == "" {
		return Fallback
	}
	if info, ok := r.byID[categoryID]; ok {
		return info
	}
	return Fallback
}

// Categories returns the merged list in merge order.
func (r *Resolver) Categories() []core.Category {
	return append([]core.Category(nil), r.merged...)
}
