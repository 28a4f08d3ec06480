package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pingdrop/frontend"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the filter plus the multi-event security monitor",
	Long: `Monitor runs the same filter pipeline as drop and additionally polls the
shared event table, printing one line per new network, socket-connect, or
exec occurrence:

	[NET] Ingress from IP: 203.0.113.5, Port: 443
	[SOCK] Connection attempt by PID: 1234
	[EXEC] New process created by PID: 5678
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, cfg := mustSetup(cmd)
		defer logger.Sync()

		if err := frontend.RunMonitor(context.Background(), logger, cfg); err != nil {
			logger.Fatalw("fatal error while monitoring", "err", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
