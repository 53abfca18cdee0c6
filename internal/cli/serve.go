package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jayother24/firebase-functions/internal/host"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve registered functions over HTTP",
	Long: `Serve every function registered in this process over HTTP.

The listen address comes from funchost.yaml or FUNCHOST_* environment
variables (FUNCHOST_HOST, FUNCHOST_PORT).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := host.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return host.New(cfg).Start(ctx)
}
