package model

// Summary is the dashboard roll-up across all pools.
type Summary struct {
	TotalEquipment   int            `json:"total_equipment"`
	StatusBreakdown  map[string]int `json:"status_breakdown"`
	CategoryTotals   map[string]int `json:"category_totals"`
	PendingRequests  int            `json:"pending_requests"`
	OpenLossReports  int            `json:"open_loss_reports"`
	ItemsInRepair    int            `json:"items_in_repair"`
}
