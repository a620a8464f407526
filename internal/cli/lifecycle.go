package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// IssueCmd returns the issue command.
func IssueCmd() *cobra.Command {
	var userID int64
	var purpose string

	cmd := &cobra.Command{
		Use:   "issue <pool-id>",
		Short: "Issue the best available item from a pool to an officer (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID       string `json:"unique_id"`
				AvailableCount int    `json:"available_count"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/issue", map[string]any{
				"user_id": userID,
				"purpose": purpose,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("Issued %s (%d remaining in pool)\n", resp.UniqueID, resp.AvailableCount)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "officer", "o", 0, "officer user ID (required)")
	cmd.Flags().StringVarP(&purpose, "purpose", "p", "", "purpose of issue")
	cmd.MarkFlagRequired("officer")

	return cmd
}

// ReturnCmd returns the return command.
func ReturnCmd() *cobra.Command {
	var condition, remarks string

	cmd := &cobra.Command{
		Use:   "return <pool-id> <item-id>",
		Short: "Accept an issued item back and triage its condition (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID  string `json:"unique_id"`
				DaysUsed  int    `json:"days_used"`
				Condition string `json:"condition"`
				Status    string `json:"status"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/return", map[string]any{
				"condition": condition,
				"remarks":   remarks,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("Returned %s after %d day(s), condition %s, now %s\n",
				resp.UniqueID, resp.DaysUsed, resp.Condition, statusMarker(resp.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&condition, "condition", "c", "", "condition at return: Excellent, Good, Fair, Poor or Out of Service (required)")
	cmd.Flags().StringVarP(&remarks, "remarks", "r", "", "remarks about the item's state")
	cmd.MarkFlagRequired("condition")

	return cmd
}

// RepairCmd returns the repair command.
func RepairCmd() *cobra.Command {
	var action, condition, fixedBy string
	var cost float64

	cmd := &cobra.Command{
		Use:   "repair <pool-id> <item-id>",
		Short: "Complete a repair and put an item back in service (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID  string `json:"unique_id"`
				NewStatus string `json:"new_status"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/repair", map[string]any{
				"action":    action,
				"condition": condition,
				"fixed_by":  fixedBy,
				"cost":      cost,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("Repaired %s, now %s\n", resp.UniqueID, statusMarker(resp.NewStatus))
			return nil
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", "", "what was done (required)")
	cmd.Flags().StringVarP(&condition, "condition", "c", "Good", "condition after repair: Good or Excellent")
	cmd.Flags().StringVar(&fixedBy, "fixed-by", "", "who performed the repair")
	cmd.Flags().Float64Var(&cost, "cost", 0, "repair cost")
	cmd.MarkFlagRequired("action")

	return cmd
}

// ReportCmd returns the report command.
func ReportCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "report <pool-id> <item-id>",
		Short: "Report a problem and send an item to maintenance (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID string `json:"unique_id"`
				Status   string `json:"status"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/report", map[string]any{
				"description": description,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("%s sent to maintenance\n", resp.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "problem description (required)")
	cmd.MarkFlagRequired("description")

	return cmd
}

// LostCmd returns the lost command.
func LostCmd() *cobra.Command {
	var firNumber, firDate, description string

	cmd := &cobra.Command{
		Use:   "lost <pool-id> <item-id>",
		Short: "Report an issued item as lost and open an investigation (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID string `json:"unique_id"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/lost", map[string]any{
				"fir_number":  firNumber,
				"fir_date":    firDate,
				"description": description,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("%s reported lost, investigation opened under FIR %s\n", resp.UniqueID, firNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&firNumber, "fir", "", "FIR number (required)")
	cmd.Flags().StringVar(&firDate, "fir-date", "", "FIR date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "circumstances of the loss")
	cmd.MarkFlagRequired("fir")

	return cmd
}

// WriteOffCmd returns the write-off command.
func WriteOffCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "write-off <pool-id> <item-id>",
		Short: "Close a loss investigation as unrecovered (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID string `json:"unique_id"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/write-off", map[string]any{
				"notes": notes,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("%s written off\n", resp.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "resolution notes")
	return cmd
}

// RecoverCmd returns the recover command.
func RecoverCmd() *cobra.Command {
	var notes, condition string

	cmd := &cobra.Command{
		Use:   "recover <pool-id> <item-id>",
		Short: "Close a loss investigation with the item recovered (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				UniqueID  string `json:"unique_id"`
				NewStatus string `json:"new_status"`
			}
			err := call("POST", "/api/pools/"+args[0]+"/items/"+args[1]+"/recover", map[string]any{
				"notes":     notes,
				"condition": condition,
			}, &resp)
			if err != nil {
				return err
			}

			fmt.Printf("%s recovered, now %s\n", resp.UniqueID, statusMarker(resp.NewStatus))
			return nil
		},
	}

	cmd.Flags().StringVarP(&condition, "condition", "c", "", "condition at recovery (required)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "recovery notes")
	cmd.MarkFlagRequired("condition")

	return cmd
}
