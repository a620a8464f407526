package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/svelankar/armory/internal/model"
)

// PoolCmd returns the pool command group.
func PoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage equipment pools",
	}

	cmd.AddCommand(poolListCmd())
	cmd.AddCommand(poolShowCmd())
	cmd.AddCommand(poolCreateCmd())

	return cmd
}

func poolListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/pools"
			if category != "" {
				path += "?category=" + url.QueryEscape(category)
			}

			var pools []model.Pool
			if err := call("GET", path, nil, &pools); err != nil {
				return err
			}
			if len(pools) == 0 {
				fmt.Println("No pools found.")
				return nil
			}

			for _, p := range pools {
				fmt.Printf("%3d  %-35s %-20s total %3d  available %s  issued %d  maintenance %d  damaged %d\n",
					p.ID, p.PoolName, p.Category, p.TotalQuantity,
					colorCount(p.AvailableCount), p.IssuedCount, p.MaintenanceCount, p.DamagedCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	return cmd
}

func poolShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pool-id>",
		Short: "Show a pool with all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.Pool
			if err := call("GET", "/api/pools/"+args[0], nil, &p); err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", p.PoolName, p.Category)
			fmt.Printf("  Model: %s", p.Model)
			if p.Manufacturer != "" {
				fmt.Printf(" — %s", p.Manufacturer)
			}
			fmt.Println()
			fmt.Printf("  Authorized: %s\n", strings.Join(p.AuthorizedDesignations, ", "))
			fmt.Printf("  Counts: %d total, %s available, %d issued, %d maintenance, %d damaged\n\n",
				p.TotalQuantity, colorCount(p.AvailableCount),
				p.IssuedCount, p.MaintenanceCount, p.DamagedCount)

			for _, item := range p.Items {
				line := fmt.Sprintf("  %-12s %s  %s", item.UniqueID, statusMarker(item.Status), item.Condition)
				if item.CurrentlyIssuedTo != nil {
					line += fmt.Sprintf("  → %s (%s), since %s",
						item.CurrentlyIssuedTo.OfficerName,
						item.CurrentlyIssuedTo.OfficerID,
						item.CurrentlyIssuedTo.IssuedDate.Format("2006-01-02"))
				}
				if item.LostPending {
					line += color.New(color.FgRed).Sprint("  [loss under investigation]")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func poolCreateCmd() *cobra.Command {
	var (
		category     string
		mdl          string
		manufacturer string
		prefix       string
		quantity     int
		designations []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an equipment pool (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.Pool
			err := call("POST", "/api/pools", map[string]any{
				"pool_name":               args[0],
				"category":                category,
				"model":                   mdl,
				"manufacturer":            manufacturer,
				"id_prefix":               prefix,
				"quantity":                quantity,
				"authorized_designations": designations,
			}, &p)
			if err != nil {
				return err
			}

			fmt.Printf("Created pool %d: %s with %d items (%s-001 … %s-%03d)\n",
				p.ID, p.PoolName, p.TotalQuantity, p.IDPrefix, p.IDPrefix, p.TotalQuantity)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "pool category (required)")
	cmd.Flags().StringVarP(&mdl, "model", "m", "", "equipment model (required)")
	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "manufacturer")
	cmd.Flags().StringVar(&prefix, "prefix", "", "unique ID prefix, 2-5 characters (required)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "number of items (required)")
	cmd.Flags().StringSliceVar(&designations, "designations", nil, "authorized officer designations")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("prefix")
	cmd.MarkFlagRequired("quantity")

	return cmd
}

func colorCount(n int) string {
	if n == 0 {
		return color.New(color.FgRed).Sprintf("%d", n)
	}
	return color.New(color.FgGreen).Sprintf("%d", n)
}

func statusMarker(status string) string {
	padded := fmt.Sprintf("%-12s", status)
	switch status {
	case model.StatusAvailable:
		return color.New(color.FgGreen).Sprint(padded)
	case model.StatusIssued:
		return color.New(color.FgCyan).Sprint(padded)
	case model.StatusMaintenance:
		return color.New(color.FgYellow).Sprint(padded)
	case model.StatusDamaged, model.StatusLost:
		return color.New(color.FgRed).Sprint(padded)
	case model.StatusRetired:
		return color.New(color.FgHiBlack).Sprint(padded)
	}
	return padded
}
