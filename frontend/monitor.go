package frontend

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pingdrop/bpf"
)

// PollInterval is how often the event table is swept.
const PollInterval = time.Second

// RunMonitor runs the security-monitor variant: the same filter pipeline plus
// a polling loop over the multi-type event table, printing operator lines for
// each new occurrence.
func RunMonitor(ctx context.Context, logger *zap.SugaredLogger, cfg *Config) error {
	filter, err := setupFilter(logger, cfg)
	if err != nil {
		return err
	}
	defer filter.Close()

	if err := filter.AttachTracepoints(); err != nil {
		return fmt.Errorf("failed to attach monitor tracepoints: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return filter.Start(gctx)
	})

	g.Go(func() error {
		return filter.PollEvents(gctx, PollInterval, func(ev bpf.EventData) {
			printEvent(os.Stdout, ev)
		})
	})

	logger.Infow("monitoring active, ctrl-c to exit", "iface", cfg.Iface)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error occurred while monitoring: %w", err)
	}

	logStats(logger, filter)

	return nil
}

// FormatEvent renders one operator-facing line for ev, or "" for event types
// this build doesn't know how to describe.
func FormatEvent(ev bpf.EventData) string {
	switch ev.EventType {
	case bpf.EventNetwork:
		return fmt.Sprintf("[NET] Ingress from IP: %s, Port: %d", bpf.IPv4(ev.DataOne), ev.DataTwo)
	case bpf.EventSocketConnect:
		return fmt.Sprintf("[SOCK] Connection attempt by PID: %d", ev.DataOne)
	case bpf.EventExec:
		return fmt.Sprintf("[EXEC] New process created by PID: %d", ev.DataOne)
	default:
		return ""
	}
}

func printEvent(w io.Writer, ev bpf.EventData) {
	if line := FormatEvent(ev); line != "" {
		fmt.Fprintln(w, line)
	}
}
