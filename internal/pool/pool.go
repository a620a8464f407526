// Package pool implements the equipment pool lifecycle engine: the state
// machine governing an item's transitions between Available, Issued,
// Maintenance and Lost, and the bookkeeping that keeps pool-level counts
// consistent with per-item state.
//
// All functions operate on an in-memory *model.Pool snapshot and perform no
// I/O; the store layer is responsible for loading a pool, applying exactly
// one operation, and persisting the whole document atomically.
package pool

import (
	"fmt"
	"time"

	"github.com/svelankar/armory/internal/model"
)

// now is swapped out in tests that need deterministic timestamps.
var now = time.Now

// New creates a pool with qty freshly generated items, all Available and in
// Excellent condition. Unique IDs are PREFIX-001 .. PREFIX-NNN.
func New(name, category, mdl, manufacturer, prefix string, qty int, designations []string) (*model.Pool, error) {
	if name == "" {
		return nil, fmt.Errorf("pool name is required")
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if mdl == "" {
		return nil, fmt.Errorf("model is required")
	}
	if len(prefix) < 2 || len(prefix) > 5 {
		return nil, fmt.Errorf("id prefix must be 2-5 characters, got %q", prefix)
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	for _, d := range designations {
		if !model.ValidDesignation(d) {
			return nil, fmt.Errorf("unknown designation %q", d)
		}
	}

	p := &model.Pool{
		PoolName:               name,
		Category:               category,
		Model:                  mdl,
		Manufacturer:           manufacturer,
		IDPrefix:               prefix,
		AuthorizedDesignations: designations,
		TotalQuantity:          qty,
		Items:                  make([]model.Item, 0, qty),
	}
	for i := 1; i <= qty; i++ {
		p.Items = append(p.Items, model.Item{
			UniqueID:  fmt.Sprintf("%s-%03d", prefix, i),
			Status:    model.StatusAvailable,
			Condition: model.ConditionExcellent,
		})
	}
	RecomputeCounts(p)
	return p, nil
}

// RecomputeCounts derives the four pool counters from item statuses. It is
// the only way the counters change; it must run after every mutation that
// touches an item's status, before the pool is persisted.
func RecomputeCounts(p *model.Pool) {
	var available, issued, maintenance, damaged int
	for i := range p.Items {
		switch p.Items[i].Status {
		case model.StatusAvailable:
			available++
		case model.StatusIssued:
			issued++
		case model.StatusMaintenance:
			maintenance++
		case model.StatusDamaged:
			damaged++
		}
	}
	p.AvailableCount = available
	p.IssuedCount = issued
	p.MaintenanceCount = maintenance
	p.DamagedCount = damaged
}

// CountsConsistent reports whether the stored counters match the item
// statuses. Used by the repair job to find drifted pool documents.
func CountsConsistent(p *model.Pool) bool {
	var available, issued, maintenance, damaged int
	for i := range p.Items {
		switch p.Items[i].Status {
		case model.StatusAvailable:
			available++
		case model.StatusIssued:
			issued++
		case model.StatusMaintenance:
			maintenance++
		case model.StatusDamaged:
			damaged++
		}
	}
	return p.AvailableCount == available &&
		p.IssuedCount == issued &&
		p.MaintenanceCount == maintenance &&
		p.DamagedCount == damaged
}

// FindItem returns the item with the given unique ID, or nil.
func FindItem(p *model.Pool, uniqueID string) *model.Item {
	for i := range p.Items {
		if p.Items[i].UniqueID == uniqueID {
			return &p.Items[i]
		}
	}
	return nil
}

// conditionRank orders issuable conditions, best first. Poor is excluded:
// a Poor item should already have been routed to maintenance and is never
// handed out directly.
var conditionRank = map[string]int{
	model.ConditionExcellent: 0,
	model.ConditionGood:      1,
	model.ConditionFair:      2,
}

// SelectForIssue picks the Available item in the best condition, so the
// best-maintained equipment is always handed out first and lower-condition
// stock stays back as a buffer that cycles through maintenance.
func SelectForIssue(p *model.Pool) *model.Item {
	var best *model.Item
	bestRank := len(conditionRank)
	for i := range p.Items {
		item := &p.Items[i]
		if item.Status != model.StatusAvailable {
			continue
		}
		rank, issuable := conditionRank[item.Condition]
		if !issuable {
			continue
		}
		if rank < bestRank {
			best = item
			bestRank = rank
		}
	}
	return best
}

// openUsageEntry returns the item's open custody period, or nil.
func openUsageEntry(item *model.Item) *model.UsageEntry {
	if len(item.UsageHistory) == 0 {
		return nil
	}
	last := &item.UsageHistory[len(item.UsageHistory)-1]
	if last.ReturnedDate == nil {
		return last
	}
	return nil
}

// openMaintenanceEntry returns the most recent open maintenance entry, or nil.
func openMaintenanceEntry(item *model.Item) *model.MaintenanceEntry {
	for i := len(item.MaintenanceHistory) - 1; i >= 0; i-- {
		if item.MaintenanceHistory[i].FixedDate == nil {
			return &item.MaintenanceHistory[i]
		}
	}
	return nil
}

// openLossReport returns the item's open loss report, or nil.
func openLossReport(item *model.Item) *model.LossReport {
	for i := len(item.LostHistory) - 1; i >= 0; i-- {
		if item.LostHistory[i].InvestigationStatus == model.InvestigationOpen {
			return &item.LostHistory[i]
		}
	}
	return nil
}

// daysUsed computes whole days of use between issue and return. Partial days
// round up, so any positive elapsed time counts as a full day.
func daysUsed(issued, returned time.Time) int {
	elapsed := returned.Sub(issued)
	if elapsed <= 0 {
		return 0
	}
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) != 0 {
		days++
	}
	return days
}
