package main

import (
	"github.com/spf13/cobra"

	"github.com/tomehq/tome/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Tome server via HTTP.

These commands require a running server (tome serve).
Use --server to specify a custom server URL.

Examples:
  tome api health                          # Check server health
  tome api books generate "Graph Theory"   # Generate a book
  tome api books status                    # Watch pipeline progress
  tome api books document > book.md        # Save the generated book`,
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book generation commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))

	// Books as subcommand group
	for _, ep := range endpoints.BookCommands() {
		booksCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(apiCmd)
}
