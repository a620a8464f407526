package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/svelankar/armory/internal/model"
)

// SummaryCmd returns the summary command.
func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the station-wide equipment summary (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s model.Summary
			if err := call("GET", "/api/reports/summary", nil, &s); err != nil {
				return err
			}

			fmt.Printf("Total equipment: %d\n\n", s.TotalEquipment)

			fmt.Println("By status:")
			for _, status := range []string{
				model.StatusAvailable, model.StatusIssued, model.StatusMaintenance,
				model.StatusDamaged, model.StatusLost, model.StatusRetired,
			} {
				if n := s.StatusBreakdown[status]; n > 0 {
					fmt.Printf("  %s %4d\n", statusMarker(status), n)
				}
			}
			fmt.Println()

			fmt.Println("By category:")
			categories := make([]string, 0, len(s.CategoryTotals))
			for c := range s.CategoryTotals {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			for _, c := range categories {
				fmt.Printf("  %-22s %4d\n", c, s.CategoryTotals[c])
			}
			fmt.Println()

			pending := fmt.Sprintf("%d", s.PendingRequests)
			if s.PendingRequests > 0 {
				pending = color.New(color.FgYellow).Sprint(pending)
			}
			fmt.Printf("Pending requests:       %s\n", pending)
			fmt.Printf("Open loss reports:      %d\n", s.OpenLossReports)
			fmt.Printf("Items in repair:        %d\n", s.ItemsInRepair)
			return nil
		},
	}
}
