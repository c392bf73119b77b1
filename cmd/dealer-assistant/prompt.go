package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var promptJSON bool

var promptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Show the classified intent and augmented prompt without calling the model",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrompt,
}

func init() {
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "print the prompt as JSON")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{offline: true})
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.assistant.BuildPrompt(strings.Join(args, " "))
	out := cmd.OutOrStdout()

	if promptJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Fprintf(out, "Intent:    %s\n", p.Intent.Key())
	fmt.Fprintf(out, "Retrieval: %s\n\n", p.Retrieval)
	fmt.Fprintf(out, "--- system ---\n%s\n\n", p.System)
	fmt.Fprintf(out, "--- user ---\n%s\n", p.User)
	return nil
}
