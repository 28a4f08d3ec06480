package frontend

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Blocker is the write side of a blocklist. Both the kernel map wrapper and
// the userspace store satisfy it.
type Blocker interface {
	Block(ip net.IP) error
}

// PopulateBlocklist loads blocked addresses into bl: the inline list first,
// then the file, so a later file entry for the same key overwrites the
// inline one. Malformed entries are warned about and skipped; a file that
// cannot be opened is fatal.
func PopulateBlocklist(logger *zap.SugaredLogger, bl Blocker, cfg *Config) error {
	if cfg.Block != "" {
		n := loadInline(logger, bl, cfg.Block)
		logger.Infow("loaded inline blocklist", "entries", n)
	}

	if cfg.IPFile != "" {
		n, err := loadFile(logger, bl, cfg.IPFile)
		if err != nil {
			return err
		}

		logger.Infow("loaded blocklist file", "path", cfg.IPFile, "entries", n)
	}

	return nil
}

// loadInline inserts each comma-separated IPv4 literal, returning how many
// were accepted.
func loadInline(logger *zap.SugaredLogger, bl Blocker, list string) int {
	var n int

	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if insert(logger, bl, token, "--block list") {
			n++
		}
	}

	return n
}

// loadFile inserts one IPv4 literal per line. Blank lines and lines starting
// with # are comments.
func loadFile(logger *zap.SugaredLogger, bl Blocker, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open blocklist file %s: %w", path, err)
	}
	defer file.Close()

	var n int

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if insert(logger, bl, line, path) {
			n++
		}
	}

	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("failed to read blocklist file %s: %w", path, err)
	}

	return n, nil
}

func insert(logger *zap.SugaredLogger, bl Blocker, token, source string) bool {
	ip := net.ParseIP(token)
	if ip == nil || ip.To4() == nil {
		logger.Warnw("skipping malformed IPv4 address", "token", token, "source", source)
		return false
	}

	if err := bl.Block(ip); err != nil {
		logger.Warnw("skipping blocklist entry", "token", token, "source", source, "err", err)
		return false
	}

	return true
}
