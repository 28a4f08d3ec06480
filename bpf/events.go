package bpf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
)

// PacketEvent mirrors the record the classifier writes to the events ring
// buffer for each inspected IPv4 packet. The layout is fixed and shared with
// the kernel program: fields in this order, little-endian, 12 bytes total.
type PacketEvent struct {
	SrcAddr  uint32
	SrcPort  uint16
	TotalLen uint16
	Protocol uint8
	Verdict  uint8
	Pad      [2]uint8
}

// SrcIP returns the source address as a net.IP for display.
func (e PacketEvent) SrcIP() net.IP {
	return IPv4(e.SrcAddr)
}

// IPv4 converts raw big-endian address bits back into a net.IP.
func IPv4(addr uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, addr)

	return ip
}

func decodePacketEvent(raw []byte) (PacketEvent, error) {
	var ev PacketEvent

	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &ev); err != nil {
		return PacketEvent{}, fmt.Errorf("failed to decode packet event: %w", err)
	}

	return ev, nil
}

// Event types stored in the event_latest table. The table is keyed by event
// type with one slot per key, overwritten on each new occurrence; new types
// can be added without touching the polling loop, which iterates the map.
const (
	EventNetwork       uint32 = 1
	EventSocketConnect uint32 = 2
	EventExec          uint32 = 3
)

// EventData mirrors the kernel's per-type event slot: fixed layout, fixed
// field order, 12 bytes. DataOne carries an IPv4 address (raw big-endian
// bits) or a PID depending on the type; DataTwo a port or zero.
type EventData struct {
	EventType uint32
	DataOne   uint32
	DataTwo   uint32
}
