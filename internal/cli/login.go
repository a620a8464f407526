package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LoginCmd returns the login command.
func LoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the armory server and store a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			if username == "" {
				fmt.Print("Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			var resp struct {
				Token string `json:"token"`
			}
			err := callAnonymous("POST", "/api/auth/login", map[string]string{
				"username": username,
				"password": password,
			}, &resp)
			if err != nil {
				return err
			}

			if err := saveToken(resp.Token); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", username, serverAddr())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")

	return cmd
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := call("POST", "/api/auth/logout", struct{}{}, nil); err != nil {
				return err
			}

			path, err := tokenPath()
			if err == nil {
				os.Remove(path)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
