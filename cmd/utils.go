package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pingdrop/frontend"
)

// initLogger builds the process logger; there is nothing to fall back to if
// this fails, so callers treat an error as fatal.
func initLogger(verbose bool) (*zap.SugaredLogger, error) {
	newLogger := zap.NewProduction
	if verbose {
		newLogger = zap.NewDevelopment
	}

	l, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return l.Sugar(), nil
}

// resolveConfig layers flag values over the config file (if any) over the
// defaults. Only flags the user actually set override the file.
func resolveConfig(cmd *cobra.Command) (*frontend.Config, error) {
	cfg := frontend.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := frontend.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	flags := cmd.Flags()

	if flags.Changed("iface") {
		cfg.Iface, _ = flags.GetString("iface")
	}

	if flags.Changed("block") {
		cfg.Block, _ = flags.GetString("block")
	}

	if flags.Changed("ip-file") {
		cfg.IPFile, _ = flags.GetString("ip-file")
	}

	if flags.Changed("object") {
		cfg.ObjectPath, _ = flags.GetString("object")
	}

	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	if flags.Changed("userspace") {
		cfg.Userspace, _ = flags.GetBool("userspace")
	}

	if flags.Changed("queue") {
		cfg.QueueNum, _ = flags.GetUint16("queue")
	}

	return cfg, nil
}

// mustSetup is the shared fatal-path startup for subcommands.
func mustSetup(cmd *cobra.Command) (*zap.SugaredLogger, *frontend.Config) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger, err := initLogger(verbose)
	if err != nil {
		log.Fatalf("failed to get zap logger: %v", err)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		logger.Fatalw("invalid configuration (pingdrop -h for help)", "err", err)
	}

	return logger, cfg
}
