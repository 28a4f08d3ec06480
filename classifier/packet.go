package classifier

import "encoding/binary"

// Header sizes and field offsets for the fixed-layout portion of each frame.
// IPv4 options are never parsed; the filter only reads the 20-byte fixed
// header, matching the kernel program.
const (
	EthHdrLen  = 14
	IPv4HdrLen = 20

	etherTypeOff = 12

	ipTotalLenOff = 2
	ipProtocolOff = 9
	ipSrcAddrOff  = 12

	EtherTypeIPv4 = 0x0800

	ProtoICMP = 1
	ProtoTCP  = 6
	ProtoUDP  = 17
)

// PacketView is an ephemeral read-only projection over one packet's bytes.
// It is only valid for the duration of a single classification call and never
// copies packet data.
type PacketView struct {
	data []byte
}

// View wraps a raw packet buffer.
func View(data []byte) PacketView {
	return PacketView{data: data}
}

// Header returns n bytes starting at off, or ok=false if the range extends
// past the packet's end. Callers must check ok before touching the slice.
func (v PacketView) Header(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off+n > len(v.data) {
		return nil, false
	}

	return v.data[off : off+n], true
}

// EtherType reads the Ethernet type field of the frame.
func (v PacketView) EtherType() (uint16, bool) {
	hdr, ok := v.Header(0, EthHdrLen)
	if !ok {
		return 0, false
	}

	return binary.BigEndian.Uint16(hdr[etherTypeOff:]), true
}

// ipv4Header holds the fields the filter cares about, decoded from the fixed
// 20-byte IPv4 header at the given offset.
type ipv4Header struct {
	srcAddr  uint32
	totalLen uint16
	protocol uint8
}

// ipv4At decodes the fixed IPv4 header starting at off.
func (v PacketView) ipv4At(off int) (ipv4Header, bool) {
	hdr, ok := v.Header(off, IPv4HdrLen)
	if !ok {
		return ipv4Header{}, false
	}

	return ipv4Header{
		srcAddr:  binary.BigEndian.Uint32(hdr[ipSrcAddrOff:]),
		totalLen: binary.BigEndian.Uint16(hdr[ipTotalLenOff:]),
		protocol: hdr[ipProtocolOff],
	}, true
}

// srcPortAt reads the transport source port at off (TCP and UDP both keep it
// in the first two bytes). The port is diagnostic only, so a truncated
// transport header yields 0 rather than an abort.
func (v PacketView) srcPortAt(off int) uint16 {
	hdr, ok := v.Header(off, 2)
	if !ok {
		return 0
	}

	return binary.BigEndian.Uint16(hdr)
}
