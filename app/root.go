// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-ldapauth",
	Short: "go-ldapauth is a directory authentication and group sync daemon",
	Long: `go-ldapauth authenticates users against per-domain LDAP or Active
Directory realms, reconciles directory group membership with locally managed
groups, and optionally falls back to local password authentication.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
