package commands

// Root command. Registers the serve, fetch, export and bot subcommands.

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zpool-charts",
	Short: "Zcash shielded supply charts - data API, PNG rendering and delivery",
	Long: `zpool-charts fetches the public Zcash shielded supply series, derives
chart scales, answers nearest-point tooltip lookups, renders the area chart
to PNG and exports labeled pool charts.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(botCmd)
}
