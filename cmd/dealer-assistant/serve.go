package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dealer-assistant/internal/common/server"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat service",
	Long:  `Serves POST /chat, GET /turns, /health, /ready and /metrics until SIGINT or SIGTERM.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "addr", "", "listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	serverCfg := a.cfg.Server
	if serveAddress != "" {
		serverCfg.Address = serveAddress
	}

	srv := server.New(serverCfg, a.assistant, a.turns, a.log)
	for name, check := range a.checks {
		srv.AddReadyCheck(name, check)
	}

	a.log.Info("Starting dealer assistant", map[string]interface{}{
		"leads":     len(a.records.Leads()),
		"inquiries": len(a.records.Inquiries()),
		"provider":  a.cfg.LLM.Provider,
	})

	if err := srv.Run(ctx); err != nil {
		a.log.Error("http server failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	a.log.Info("Dealer assistant stopped gracefully", nil)
	return nil
}
