package frontend

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pingdrop/classifier"
)

type recordingBlocker struct {
	ips []string
}

func (r *recordingBlocker) Block(ip net.IP) error {
	r.ips = append(r.ips, ip.String())
	return nil
}

func observedLogger(t *testing.T) (*zap.SugaredLogger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.WarnLevel)

	return zap.New(core).Sugar(), logs
}

func writeBlocklistFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blocklist.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestPopulateBlocklistInline(t *testing.T) {
	logger, logs := observedLogger(t)
	bl := &recordingBlocker{}

	err := PopulateBlocklist(logger, bl, &Config{Block: "10.0.0.1,not-an-ip,10.0.0.2"})
	require.NoError(t, err)

	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, bl.ips)
	require.Equal(t, 1, logs.FilterMessage("skipping malformed IPv4 address").Len())
}

func TestPopulateBlocklistInlineTrimsWhitespace(t *testing.T) {
	logger, logs := observedLogger(t)
	bl := &recordingBlocker{}

	err := PopulateBlocklist(logger, bl, &Config{Block: " 10.0.0.1 ,  10.0.0.2,"})
	require.NoError(t, err)

	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, bl.ips)
	require.Equal(t, 0, logs.Len())
}

func TestPopulateBlocklistRejectsIPv6(t *testing.T) {
	logger, logs := observedLogger(t)
	bl := &recordingBlocker{}

	err := PopulateBlocklist(logger, bl, &Config{Block: "2001:db8::1,10.0.0.1"})
	require.NoError(t, err)

	require.Equal(t, []string{"10.0.0.1"}, bl.ips)
	require.Equal(t, 1, logs.FilterMessage("skipping malformed IPv4 address").Len())
}

func TestPopulateBlocklistFile(t *testing.T) {
	logger, logs := observedLogger(t)
	bl := &recordingBlocker{}

	path := writeBlocklistFile(t, `# known ping flooders
203.0.113.5

not-an-ip
198.51.100.7
`)

	err := PopulateBlocklist(logger, bl, &Config{IPFile: path})
	require.NoError(t, err)

	require.Equal(t, []string{"203.0.113.5", "198.51.100.7"}, bl.ips)
	require.Equal(t, 1, logs.FilterMessage("skipping malformed IPv4 address").Len())
}

func TestPopulateBlocklistMissingFileIsFatal(t *testing.T) {
	logger, _ := observedLogger(t)
	bl := &recordingBlocker{}

	err := PopulateBlocklist(logger, bl, &Config{IPFile: "/nonexistent/blocklist.txt"})
	require.Error(t, err)
}

func TestPopulateBlocklistInlineThenFile(t *testing.T) {
	logger, _ := observedLogger(t)
	bl := &recordingBlocker{}

	path := writeBlocklistFile(t, "198.51.100.7\n")

	err := PopulateBlocklist(logger, bl, &Config{Block: "10.0.0.1", IPFile: path})
	require.NoError(t, err)

	require.Equal(t, []string{"10.0.0.1", "198.51.100.7"}, bl.ips)
}

func TestPopulateBlocklistDuplicateIsIdempotent(t *testing.T) {
	logger, _ := observedLogger(t)
	store := classifier.NewStore()

	path := writeBlocklistFile(t, "10.0.0.1\n")

	err := PopulateBlocklist(logger, store, &Config{Block: "10.0.0.1", IPFile: path})
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
}
