// Command adminctl exercises a running server's admin session endpoints
// from the outside, the way a browser client would.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	baseURL string
)

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Admin session tooling for the showcase site",
	Long: `adminctl talks to the admin login, verify and logout endpoints of a
running showcase server.

The admin secret is read from an environment variable or stdin and is
never echoed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "adminctl %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080",
		"Base URL of the server")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
