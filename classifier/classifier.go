package classifier

import (
	"encoding/binary"
	"net"
)

// Verdict is the per-packet disposition. The values match the XDP action
// constants so a kernel-emitted verdict decodes without translation.
type Verdict uint32

const (
	// Aborted means header parsing failed and the packet could not be
	// inspected safely. Distinct from a deliberate Drop.
	Aborted Verdict = 0
	// Drop rejects the packet.
	Drop Verdict = 1
	// Pass hands the packet back to the network stack untouched.
	Pass Verdict = 2
)

func (v Verdict) String() string {
	switch v {
	case Aborted:
		return "aborted"
	case Drop:
		return "drop"
	case Pass:
		return "pass"
	default:
		return "unknown"
	}
}

// Blocklist is the read side of the shared blocklist. Keys are the raw
// big-endian bits of an IPv4 source address.
type Blocklist interface {
	Blocked(addr uint32) bool
}

// Event is the diagnostic record emitted once per classified IPv4 packet.
// Emission is best-effort and never influences the verdict.
type Event struct {
	SrcAddr  uint32
	SrcPort  uint16
	TotalLen uint16
	Protocol uint8
	Verdict  Verdict
}

// SrcIP returns the source address as a net.IP for display.
func (e Event) SrcIP() net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, e.SrcAddr)

	return ip
}

// Sink receives diagnostic events. Implementations must not block.
type Sink func(Event)

// Classifier applies the ICMP drop policy to individual packets. It holds no
// cross-packet state beyond the blocklist handle.
type Classifier struct {
	blocklist Blocklist
	sink      Sink
}

// New returns a Classifier reading from blocklist. sink may be nil, in which
// case no diagnostic events are emitted.
func New(blocklist Blocklist, sink Sink) *Classifier {
	return &Classifier{
		blocklist: blocklist,
		sink:      sink,
	}
}

// Classify inspects one Ethernet frame and returns its verdict.
//
// Non-IPv4 frames pass without consulting the blocklist. IPv4 packets from a
// blocklisted source are dropped only when they carry ICMP; other protocols
// from the same host pass so that collateral traffic is not blocked. A frame
// too short to parse is aborted.
func (c *Classifier) Classify(frame []byte) Verdict {
	view := View(frame)

	etherType, ok := view.EtherType()
	if !ok {
		return Aborted
	}

	if etherType != EtherTypeIPv4 {
		return Pass
	}

	return c.classify(view, EthHdrLen)
}

// ClassifyIP classifies a bare IPv4 packet (no Ethernet header), as delivered
// by NFQUEUE.
func (c *Classifier) ClassifyIP(pkt []byte) Verdict {
	return c.classify(View(pkt), 0)
}

func (c *Classifier) classify(view PacketView, off int) Verdict {
	hdr, ok := view.ipv4At(off)
	if !ok {
		return Aborted
	}

	verdict := Pass
	if c.blocklist != nil && c.blocklist.Blocked(hdr.srcAddr) && hdr.protocol == ProtoICMP {
		verdict = Drop
	}

	c.emit(view, off, hdr, verdict)

	return verdict
}

func (c *Classifier) emit(view PacketView, off int, hdr ipv4Header, verdict Verdict) {
	if c.sink == nil {
		return
	}

	var port uint16
	if hdr.protocol == ProtoTCP || hdr.protocol == ProtoUDP {
		port = view.srcPortAt(off + IPv4HdrLen)
	}

	c.sink(Event{
		SrcAddr:  hdr.srcAddr,
		SrcPort:  port,
		TotalLen: hdr.totalLen,
		Protocol: hdr.protocol,
		Verdict:  verdict,
	})
}
