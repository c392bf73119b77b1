package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Chat with the assistant on the terminal",
	Long:  `Reads one question per line from stdin and prints the reply. Type "exit" to quit.`,
	Args:  cobra.NoArgs,
	RunE:  runAsk,
}

// Responder answers one chat turn.
type Responder interface {
	Respond(ctx context.Context, text string) string
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	return chatLoop(cmd.Context(), a.assistant, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop runs until "exit" (any case) or end of input. Blank lines are
// skipped.
func chatLoop(ctx context.Context, r Responder, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Dealer assistant ready (type 'exit' to quit)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			return nil
		}

		fmt.Fprintf(out, "Bot: %s\n", r.Respond(ctx, text))
	}
}
