package frontend

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pingdrop/bpf"
)

// RunDrop loads and attaches the ICMP drop filter, programs the blocklist,
// and drains classifier events until a termination signal arrives.
func RunDrop(ctx context.Context, logger *zap.SugaredLogger, cfg *Config) error {
	if cfg.Userspace {
		return RunUserspace(ctx, logger, cfg)
	}

	filter, err := setupFilter(logger, cfg)
	if err != nil {
		return err
	}
	defer filter.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return filter.Start(gctx)
	})

	logger.Infow("dropping ICMP from blocklisted sources, ctrl-c to exit", "iface", cfg.Iface)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error occurred while filtering: %w", err)
	}

	logStats(logger, filter)

	return nil
}

// setupFilter performs the fatal-on-failure startup sequence: load, attach,
// populate the blocklist.
func setupFilter(logger *zap.SugaredLogger, cfg *Config) (*bpf.Filter, error) {
	filter, err := bpf.LoadFilter(logger, &bpf.FilterCfg{ObjectPath: cfg.ObjectPath})
	if err != nil {
		return nil, fmt.Errorf("failed to load filter: %w", err)
	}

	if err := filter.Attach(cfg.Iface); err != nil {
		filter.Close()
		return nil, fmt.Errorf("failed to attach filter: %w", err)
	}

	if err := PopulateBlocklist(logger, filter.Blocklist(), cfg); err != nil {
		filter.Close()
		return nil, fmt.Errorf("failed to populate blocklist: %w", err)
	}

	return filter, nil
}

// logStats is best-effort shutdown reporting.
func logStats(logger *zap.SugaredLogger, filter *bpf.Filter) {
	stats, err := filter.VerdictStats()
	if err != nil {
		logger.Warnw("couldn't read verdict stats", "err", err)
		return
	}

	logger.Infow("classification stats",
		"passed", stats.Passed,
		"dropped", stats.Dropped,
		"aborted", stats.Aborted,
	)
}
