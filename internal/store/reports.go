package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/svelankar/armory/internal/model"
)

// Summary rolls up equipment status across every pool for the admin
// dashboard. Lost and Retired items have no stored counter, so the item
// documents are scanned for the full per-status breakdown.
func Summary(ctx context.Context, db *sql.DB) (*model.Summary, error) {
	s := &model.Summary{
		StatusBreakdown: make(map[string]int),
		CategoryTotals:  make(map[string]int),
	}

	rows, err := db.QueryContext(ctx, `SELECT category, total_quantity, items FROM pools`)
	if err != nil {
		return nil, fmt.Errorf("reading pools for summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, itemsJSON string
		var total int
		if err := rows.Scan(&category, &total, &itemsJSON); err != nil {
			return nil, fmt.Errorf("scanning pool summary row: %w", err)
		}

		var items []model.Item
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return nil, fmt.Errorf("decoding pool items: %w", err)
		}

		s.TotalEquipment += total
		s.CategoryTotals[category] += total
		for i := range items {
			s.StatusBreakdown[items[i].Status]++
			if items[i].LostPending {
				s.OpenLossReports++
			} else if items[i].Status == model.StatusMaintenance {
				s.ItemsInRepair++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE status = ?`, model.RequestPending,
	).Scan(&s.PendingRequests)
	if err != nil {
		return nil, fmt.Errorf("counting pending requests: %w", err)
	}

	return s, nil
}
