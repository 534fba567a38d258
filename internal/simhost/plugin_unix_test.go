//go:build unix

package simhost

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/xpconnect-go/internal/codec"
	"github.com/yndnr/xpconnect-go/internal/plugin"
	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
)

func TestPluginUnderSimulatedHost(t *testing.T) {
	log, err := logger.New(logger.Config{Output: io.Discard})
	if err != nil {
		t.Fatal(err)
	}

	h := New(testParams(), WithLogger(log), WithTimeScale(60))
	defer h.Close()

	opts := plugin.DefaultOptions()
	opts.ChannelName = "SimHostTest"
	opts.ChannelDir = t.TempDir()
	opts.Interval = 10 * time.Millisecond
	opts.Logger = log

	p := plugin.New(h, opts)
	if err := p.Start(make([]byte, 256), make([]byte, 256), make([]byte, 256)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	// The first ticks see an unready simulator and skip.
	waitFor(t, func() bool { return p.Stats().Published >= 2 })
	if s := p.Stats(); s.Skipped == 0 {
		t.Errorf("Stats() = %+v, expected skipped ticks while the simulator loads", s)
	}

	p.Stop()
	if h.Loops() != 0 {
		t.Errorf("Loops() = %d after Stop, want 0", h.Loops())
	}

	region, err := os.ReadFile(filepath.Join(opts.ChannelDir, opts.ChannelName))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(region[:4], codec.Magic[:]) {
		t.Fatalf("region starts with %q", region[:4])
	}
	n := int(binary.BigEndian.Uint32(region[8:12]))
	if n <= 0 || codec.HeaderSize+n > len(region) {
		t.Errorf("payload length %d does not fit the region", n)
	}
	if !bytes.Contains(region[:codec.HeaderSize+n], []byte("N172SP")) {
		t.Error("frame should carry the tail number")
	}
}
