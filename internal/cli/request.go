package cli

import (
	"fmt"
	"net/url"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/svelankar/armory/internal/model"
)

// RequestCmd returns the request command group.
func RequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit and process equipment requests",
	}

	cmd.AddCommand(requestSubmitCmd())
	cmd.AddCommand(requestListCmd())
	cmd.AddCommand(requestApproveCmd())
	cmd.AddCommand(requestRejectCmd())
	cmd.AddCommand(requestCancelCmd())

	return cmd
}

func requestSubmitCmd() *cobra.Command {
	var (
		poolID    int64
		itemID    string
		reqType   string
		reason    string
		condition string
		firNumber string
		firDate   string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an equipment request",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req model.Request
			err := call("POST", "/api/requests", map[string]any{
				"pool_id":    poolID,
				"item_id":    itemID,
				"type":       reqType,
				"reason":     reason,
				"condition":  condition,
				"fir_number": firNumber,
				"fir_date":   firDate,
			}, &req)
			if err != nil {
				return err
			}

			fmt.Printf("Submitted %s: %s %s\n", req.RequestID, req.Type, req.PoolName)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&poolID, "pool", "p", 0, "pool ID (required)")
	cmd.Flags().StringVarP(&itemID, "item", "i", "", "item unique ID (required except for Issue)")
	cmd.Flags().StringVarP(&reqType, "type", "t", "", "request type: Issue, Return, Maintenance or Lost (required)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "reason for the request (required)")
	cmd.Flags().StringVarP(&condition, "condition", "c", "", "item condition (Return requests)")
	cmd.Flags().StringVar(&firNumber, "fir", "", "FIR number (Lost requests)")
	cmd.Flags().StringVar(&firDate, "fir-date", "", "FIR date, YYYY-MM-DD (Lost requests)")
	cmd.MarkFlagRequired("pool")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("reason")

	return cmd
}

func requestListCmd() *cobra.Command {
	var status, reqType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests (officers see their own, admins see all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if status != "" {
				query.Set("status", status)
			}
			if reqType != "" {
				query.Set("type", reqType)
			}
			path := "/api/requests"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var requests []model.Request
			if err := call("GET", path, nil, &requests); err != nil {
				return err
			}
			if len(requests) == 0 {
				fmt.Println("No requests found.")
				return nil
			}

			for _, r := range requests {
				item := r.AssignedUniqueID
				if item == "" {
					item = "-"
				}
				fmt.Printf("%3d  %-17s %s %-11s %-25s %-12s %s\n",
					r.ID, r.RequestID, requestStatusMarker(r.Status), r.Type,
					r.PoolName, item, r.OfficerName)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status")
	cmd.Flags().StringVarP(&reqType, "type", "t", "", "filter by type")
	return cmd
}

func requestApproveCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request and apply it to the pool (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req model.Request
			err := call("POST", "/api/requests/"+args[0]+"/approve", map[string]any{
				"notes": notes,
			}, &req)
			if err != nil {
				return err
			}

			fmt.Printf("Approved %s", req.RequestID)
			if req.AssignedUniqueID != "" {
				fmt.Printf(" (item %s)", req.AssignedUniqueID)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "notes for the requesting officer")
	return cmd
}

func requestRejectCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a pending request (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req model.Request
			err := call("POST", "/api/requests/"+args[0]+"/reject", map[string]any{
				"notes": notes,
			}, &req)
			if err != nil {
				return err
			}

			fmt.Printf("Rejected %s\n", req.RequestID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "rejection reason (required)")
	cmd.MarkFlagRequired("notes")
	return cmd
}

func requestCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <request-id>",
		Short: "Cancel one of your own pending requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req model.Request
			if err := call("POST", "/api/requests/"+args[0]+"/cancel", struct{}{}, &req); err != nil {
				return err
			}

			fmt.Printf("Cancelled %s\n", req.RequestID)
			return nil
		},
	}
}

func requestStatusMarker(status string) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case model.RequestPending:
		return color.New(color.FgYellow).Sprint(padded)
	case model.RequestApproved, model.RequestCompleted:
		return color.New(color.FgGreen).Sprint(padded)
	case model.RequestRejected:
		return color.New(color.FgRed).Sprint(padded)
	case model.RequestCancelled:
		return color.New(color.FgHiBlack).Sprint(padded)
	}
	return padded
}
