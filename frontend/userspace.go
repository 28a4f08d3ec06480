package frontend

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nfqueue "github.com/florianl/go-nfqueue/v2"
	"go.uber.org/zap"

	"pingdrop/classifier"
)

const (
	maxPacketLen = 0xFFFF
	maxQueueLen  = 1024
	writeTimeout = 10 * time.Millisecond
)

// RunUserspace runs the same classification policy outside the kernel
// sandbox: packets arrive on an NFQUEUE, the pure-Go engine issues verdicts,
// and the bounds-check-before-read discipline carries over unchanged. It
// expects an iptables/nftables rule steering traffic to cfg.QueueNum.
func RunUserspace(ctx context.Context, logger *zap.SugaredLogger, cfg *Config) error {
	store := classifier.NewStore()

	if err := PopulateBlocklist(logger, store, cfg); err != nil {
		return fmt.Errorf("failed to populate blocklist: %w", err)
	}

	engine := classifier.New(store, func(ev classifier.Event) {
		logger.Infow("ingress packet",
			"src", ev.SrcIP().String(),
			"port", ev.SrcPort,
			"proto", ev.Protocol,
			"len", ev.TotalLen,
			"verdict", ev.Verdict.String(),
		)
	})

	nf, err := nfqueue.Open(&nfqueue.Config{
		NfQueue:      cfg.QueueNum,
		MaxPacketLen: maxPacketLen,
		MaxQueueLen:  maxQueueLen,
		Copymode:     nfqueue.NfQnlCopyPacket,
		WriteTimeout: writeTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open nfqueue %d: %w", cfg.QueueNum, err)
	}
	defer nf.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handle := func(a nfqueue.Attribute) int {
		if a.PacketID == nil {
			return 0
		}

		var payload []byte
		if a.Payload != nil {
			payload = *a.Payload
		}

		// the queue owns the final disposition of aborted packets; only a
		// deliberate drop is enforced here
		verdict := nfqueue.NfAccept
		if engine.ClassifyIP(payload) == classifier.Drop {
			verdict = nfqueue.NfDrop
		}

		if err := nf.SetVerdict(*a.PacketID, verdict); err != nil {
			logger.Warnw("failed to set verdict", "packetID", *a.PacketID, "err", err)
		}

		return 0
	}

	readErr := func(err error) int {
		logger.Warnw("nfqueue read error", "err", err)
		return 0
	}

	if err := nf.RegisterWithErrorFunc(ctx, handle, readErr); err != nil {
		return fmt.Errorf("failed to register nfqueue handler: %w", err)
	}

	logger.Infow("userspace classifier running, ctrl-c to exit", "queue", cfg.QueueNum)

	<-ctx.Done()

	return nil
}
