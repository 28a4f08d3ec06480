package bpf

import (
	"errors"
	"fmt"
	"net"

	"github.com/cilium/ebpf"

	"pingdrop/classifier"
)

// Blocklist wraps the shared kernel map of blocked source addresses. The
// kernel program holds the read side; this wrapper is the single writer.
type Blocklist struct {
	m *ebpf.Map
}

// Block inserts ip with a non-zero flag. Updating an existing entry is an
// idempotent overwrite.
func (b *Blocklist) Block(ip net.IP) error {
	key, err := classifier.AddrKey(ip)
	if err != nil {
		return err
	}

	var active uint8 = 1

	if err := b.m.Update(key, active, ebpf.UpdateAny); err != nil {
		return fmt.Errorf("failed to insert %s into blocklist map: %w", ip, err)
	}

	return nil
}

// Unblock removes ip from the map.
func (b *Blocklist) Unblock(ip net.IP) error {
	key, err := classifier.AddrKey(ip)
	if err != nil {
		return err
	}

	if err := b.m.Delete(key); err != nil {
		return fmt.Errorf("failed to remove %s from blocklist map: %w", ip, err)
	}

	return nil
}

// Blocked reports whether ip currently carries a non-zero flag.
func (b *Blocklist) Blocked(ip net.IP) (bool, error) {
	key, err := classifier.AddrKey(ip)
	if err != nil {
		return false, err
	}

	var flag uint8
	if err := b.m.Lookup(key, &flag); err != nil {
		if errors.Is(err, ebpf.ErrKeyNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to look up %s in blocklist map: %w", ip, err)
	}

	return flag != 0, nil
}
