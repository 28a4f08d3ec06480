package frontend

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"pingdrop/bpf"
)

func TestFormatEvent(t *testing.T) {
	addr := binary.BigEndian.Uint32([]byte{203, 0, 113, 5})

	cases := []struct {
		name string
		ev   bpf.EventData
		line string
	}{
		{
			name: "network ingress",
			ev:   bpf.EventData{EventType: bpf.EventNetwork, DataOne: addr, DataTwo: 443},
			line: "[NET] Ingress from IP: 203.0.113.5, Port: 443",
		},
		{
			name: "socket connect",
			ev:   bpf.EventData{EventType: bpf.EventSocketConnect, DataOne: 1234},
			line: "[SOCK] Connection attempt by PID: 1234",
		},
		{
			name: "exec",
			ev:   bpf.EventData{EventType: bpf.EventExec, DataOne: 5678},
			line: "[EXEC] New process created by PID: 5678",
		},
		{
			name: "unknown type renders nothing",
			ev:   bpf.EventData{EventType: 99, DataOne: 1},
			line: "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.line, FormatEvent(c.ev))
		})
	}
}

func TestPrintEventSkipsUnknownTypes(t *testing.T) {
	var buf bytes.Buffer

	printEvent(&buf, bpf.EventData{EventType: 99})
	require.Zero(t, buf.Len())

	printEvent(&buf, bpf.EventData{EventType: bpf.EventExec, DataOne: 1})
	require.Equal(t, "[EXEC] New process created by PID: 1\n", buf.String())
}
