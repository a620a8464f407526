package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svelankar/armory/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "armoryctl",
		Short: "armoryctl - client for the police equipment armory server",
		Long: `armoryctl talks to a running armoryd server. Set ARMORY_SERVER to point
it at a non-default address (default: http://localhost:8080).

Log in first with ` + "`armoryctl login`" + `; the session token is stored in your
user config directory.`,
	}

	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.PoolCmd())
	rootCmd.AddCommand(cli.SummaryCmd())
	rootCmd.AddCommand(cli.RequestCmd())

	// Lifecycle operations (admin).
	rootCmd.AddCommand(cli.IssueCmd())
	rootCmd.AddCommand(cli.ReturnCmd())
	rootCmd.AddCommand(cli.RepairCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.LostCmd())
	rootCmd.AddCommand(cli.WriteOffCmd())
	rootCmd.AddCommand(cli.RecoverCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
