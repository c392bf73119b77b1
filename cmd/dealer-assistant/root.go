package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dealer-assistant",
	Short: "Dealership assistant for leads and inquiries",
	Long: `dealer-assistant answers dealership staff questions about sales leads and
customer inquiries. Each question is classified, matched against the loaded
records, and sent to a language model together with the matching records.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: configs/config.yaml with configs/config.<APP_ENVIRONMENT>.yaml merged)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(promptCmd)
}
