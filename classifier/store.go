package classifier

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
)

// BlocklistCapacity mirrors the kernel map's max_entries.
const BlocklistCapacity = 1024

var (
	ErrNotIPv4        = errors.New("address is not IPv4")
	ErrBlocklistFull  = errors.New("blocklist is at capacity")
	ErrAddrNotBlocked = errors.New("address is not in the blocklist")
)

// AddrKey converts an IP address into the blocklist key: the address's four
// bytes as a big-endian uint32, preserving network byte order semantics.
func AddrKey(ip net.IP) (uint32, error) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotIPv4, ip)
	}

	return binary.BigEndian.Uint32(v4), nil
}

// Store is the userspace blocklist backing the nfqueue dataplane. It has a
// single writer (the control plane); reads from the classify path take the
// read lock only.
type Store struct {
	mu      sync.RWMutex
	entries map[uint32]uint8
}

// NewStore returns an empty blocklist store.
func NewStore() *Store {
	return &Store{
		entries: make(map[uint32]uint8),
	}
}

// Block inserts ip with the active flag. Re-inserting an existing address is
// an idempotent overwrite.
func (s *Store) Block(ip net.IP) error {
	key, err := AddrKey(ip)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok && len(s.entries) >= BlocklistCapacity {
		return fmt.Errorf("%w: %d entries", ErrBlocklistFull, len(s.entries))
	}

	s.entries[key] = 1

	return nil
}

// Unblock removes ip from the store.
func (s *Store) Unblock(ip net.IP) error {
	key, err := AddrKey(ip)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrAddrNotBlocked, ip)
	}

	delete(s.entries, key)

	return nil
}

// Blocked reports whether addr carries a non-zero flag.
func (s *Store) Blocked(addr uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entries[addr] != 0
}

// Len returns the number of effective entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
