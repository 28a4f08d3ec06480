package bpf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/ringbuf"
	"github.com/cilium/ebpf/rlimit"
	"go.uber.org/zap"

	"pingdrop/classifier"
)

// FilterCfg configures where the compiled XDP collection is loaded from.
type FilterCfg struct {
	ObjectPath string
}

// DefaultFilterCfg expects the object file next to the binary.
func DefaultFilterCfg() *FilterCfg {
	return &FilterCfg{ObjectPath: "ping_drop.o"}
}

// Filter owns the loaded collection and its attachments.
type Filter struct {
	logger      *zap.SugaredLogger
	coll        *ebpf.Collection
	link        link.Link
	tracepoints []link.Link
}

// LoadFilter loads the XDP collection from cfg.ObjectPath. A load failure is
// fatal to the caller: there is nothing to attach without it.
func LoadFilter(logger *zap.SugaredLogger, cfg *FilterCfg) (*Filter, error) {
	if cfg == nil {
		cfg = DefaultFilterCfg()
	}

	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("failed to remove memlock limit: %w", err)
	}

	spec, err := ebpf.LoadCollectionSpec(cfg.ObjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection spec from %s: %w", cfg.ObjectPath, err)
	}

	coll, err := ebpf.NewCollection(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	if coll.Programs[progName] == nil {
		coll.Close()
		return nil, fmt.Errorf("%w: %s", ErrProgramMissing, cfg.ObjectPath)
	}

	for _, name := range []string{blocklistMap, eventsMap, eventLatestMap, verdictStatsMap} {
		if coll.Maps[name] == nil {
			coll.Close()
			return nil, fmt.Errorf("%w: %s", ErrMapMissing, name)
		}
	}

	return &Filter{
		logger: logger,
		coll:   coll,
	}, nil
}

// Attach binds the classifier to ifaceName's ingress path. Native XDP is
// preferred; generic mode is the fallback for drivers without XDP support.
func (f *Filter) Attach(ifaceName string) error {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return fmt.Errorf("failed to look up interface %q: %w", ifaceName, err)
	}

	lnk, err := link.AttachXDP(link.XDPOptions{
		Program:   f.coll.Programs[progName],
		Interface: iface.Index,
	})
	if err != nil {
		f.logger.Warnw("native XDP attach failed, falling back to generic mode",
			"iface", ifaceName, "err", err)

		lnk, err = link.AttachXDP(link.XDPOptions{
			Program:   f.coll.Programs[progName],
			Interface: iface.Index,
			Flags:     link.XDPGenericMode,
		})
		if err != nil {
			return fmt.Errorf("failed to attach XDP program to %q: %w", ifaceName, err)
		}
	}

	f.link = lnk
	f.logger.Infow("attached XDP classifier", "iface", ifaceName)

	return nil
}

// tracepointHooks maps the monitor variant's programs to the syscalls-group
// tracepoints they hook.
var tracepointHooks = map[string]string{
	sockConnectProg: "sys_enter_connect",
	execProg:        "sys_enter_execve",
}

// AttachTracepoints attaches whichever of the monitor's tracepoint programs
// the loaded collection contains. An object built without them is tolerated
// with a warning (those event types simply never fire); failing to attach a
// program that is present is fatal, like the XDP attach.
func (f *Filter) AttachTracepoints() error {
	for name, hook := range tracepointHooks {
		prog := f.coll.Programs[name]
		if prog == nil {
			f.logger.Warnw("object file does not contain monitor program", "prog", name)
			continue
		}

		tp, err := link.Tracepoint("syscalls", hook, prog, nil)
		if err != nil {
			return fmt.Errorf("failed to attach %s to syscalls/%s: %w", name, hook, err)
		}

		f.tracepoints = append(f.tracepoints, tp)
		f.logger.Infow("attached tracepoint", "prog", name, "hook", hook)
	}

	return nil
}

// Blocklist returns the writer handle for the shared blocklist map.
func (f *Filter) Blocklist() *Blocklist {
	return &Blocklist{m: f.coll.Maps[blocklistMap]}
}

// Start drains the packet event ring buffer, logging one line per classified
// packet, and returns only once ctx is canceled. A reader setup or read
// failure loses the diagnostic feed, never the filter: the XDP program keeps
// classifying until the termination signal arrives.
func (f *Filter) Start(ctx context.Context) error {
	if f.link == nil {
		return ErrNotAttached
	}

	rd, err := ringbuf.NewReader(f.coll.Maps[eventsMap])
	if err != nil {
		f.logger.Warnw("continuing without classifier event logging", "err", err)
		<-ctx.Done()

		return nil
	}
	defer rd.Close()

	// unblocks the pending Read in drain on cancellation
	stop := context.AfterFunc(ctx, func() { rd.Close() })
	defer stop()

	if err := f.drain(rd); err != nil {
		f.logger.Warnw("stopping event drain: read failed", "err", err)
	}

	<-ctx.Done()

	return nil
}

// recordReader is the read side of the event ring buffer.
type recordReader interface {
	Read() (ringbuf.Record, error)
}

// drain consumes event records until the reader closes (clean shutdown, nil)
// or a read fails (returned for the caller to report).
func (f *Filter) drain(rd recordReader) error {
	for {
		rec, err := rd.Read()
		if errors.Is(err, ringbuf.ErrClosed) {
			f.logger.Infow("stopping event drain: ring buffer closed")
			return nil
		} else if err != nil {
			return err
		}

		ev, err := decodePacketEvent(rec.RawSample)
		if err != nil {
			f.logger.Warnw("discarding malformed event record", "err", err)
			continue
		}

		f.logger.Infow("ingress packet",
			"src", ev.SrcIP().String(),
			"port", ev.SrcPort,
			"proto", ev.Protocol,
			"len", ev.TotalLen,
			"verdict", classifier.Verdict(ev.Verdict).String(),
		)
	}
}

// PollEvents reads the event_latest table every interval and hands entries
// that changed since the previous tick to fn. Slots are last-write-wins, so
// occurrences between ticks are coalesced by design.
func (f *Filter) PollEvents(ctx context.Context, interval time.Duration, fn func(EventData)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[uint32]EventData)

	for {
		select {
		case <-ctx.Done():
			f.logger.Infow("stopping event polling: context cancelled")
			return nil
		case <-ticker.C:
		}

		var (
			key  uint32
			data EventData
		)

		iter := f.coll.Maps[eventLatestMap].Iterate()
		for iter.Next(&key, &data) {
			if seen[key] == data {
				continue
			}

			seen[key] = data
			fn(data)
		}

		if err := iter.Err(); err != nil {
			f.logger.Warnw("failed to iterate event table", "err", err)
		}
	}
}

// Close detaches the programs and releases the collection.
func (f *Filter) Close() {
	if f.link != nil {
		f.link.Close()
	}

	for _, tp := range f.tracepoints {
		tp.Close()
	}

	if f.coll != nil {
		f.coll.Close()
	}
}
