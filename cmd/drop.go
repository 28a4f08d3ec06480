package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pingdrop/frontend"
)

// dropCmd represents the drop command
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Attach the ICMP drop filter and run until interrupted",
	Long: `Drop attaches the classifier to the configured interface, programs the
blocklist from --block and/or --ip-file, and drains classifier events until a
termination signal arrives.

USAGE
	pingdrop drop --iface eth0 --block "203.0.113.5,198.51.100.7"
	pingdrop drop --iface eth0 --ip-file /etc/pingdrop/blocklist.txt
	pingdrop drop --userspace --queue 0 --block "203.0.113.5"
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, cfg := mustSetup(cmd)
		defer logger.Sync()

		if err := frontend.RunDrop(context.Background(), logger, cfg); err != nil {
			logger.Fatalw("fatal error while filtering", "err", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)

	dropCmd.Flags().Bool("userspace", false, "classify via NFQUEUE in userspace instead of XDP")
	dropCmd.Flags().Uint16("queue", 0, "NFQUEUE number for --userspace mode")
}
