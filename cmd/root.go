package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pingdrop",
	Short: "XDP-based ICMP drop filter with a dynamic source-address blocklist",
	Long: `pingdrop attaches a packet classifier to a network interface's ingress
path. IPv4 packets from blocklisted sources are dropped when they carry ICMP;
all other traffic passes. The blocklist is programmed from the command line
or a file and the classifier's diagnostic events are drained continuously.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("iface", "i", "eth0", "network interface to attach to")
	rootCmd.PersistentFlags().String("block", "", "comma-separated IPv4 addresses to block")
	rootCmd.PersistentFlags().String("ip-file", "", "path to a newline-delimited IPv4 blocklist ('#' starts a comment)")
	rootCmd.PersistentFlags().String("object", "", "path to the compiled XDP object file")
	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file (flags take precedence)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
