package irsdk

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/voyagen/irsdk/internal/sdkconfig"
)

func putI32(r []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(r[off:], uint32(v))
}

func putF32(r []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(r[off:], math.Float32bits(v))
}

// buildClientFixture writes a Header + two-entry VarHeader table + two
// rotating VarBuffers + a session-info window (with a placeholder gap
// where a SessionNum block can be inserted later) to a temp file and
// returns its path alongside the offsets a test needs to mutate it further.
type clientFixture struct {
	path              string
	sessionInfoOffset int
	sessionInfoPrefix int // byte length of the WeekendInfo-only prefix
}

func buildClientFixture(t *testing.T, connected bool) clientFixture {
	t.Helper()
	const (
		varHeaderOffset = 512
		sessionOffset   = 2048
		sessionLen      = 128
		buf0Offset      = 3000
		buf1Offset      = 3100
	)
	r := make([]byte, 4096)

	status := int32(0)
	if connected {
		status = 1
	}
	putI32(r, 0, 2)               // version
	putI32(r, 4, status)          // status
	putI32(r, 8, 60)              // tick_rate
	putI32(r, 12, 7)              // session_info_update
	putI32(r, 16, sessionLen)     // session_info_len
	putI32(r, 20, sessionOffset)  // session_info_offset
	putI32(r, 24, 2)              // num_vars
	putI32(r, 28, varHeaderOffset) // var_header_offset
	putI32(r, 32, 2)              // num_buf
	putI32(r, 36, 64)             // buf_len

	// var buffer descriptors at 48, 16 bytes apart.
	putI32(r, 48, 10)          // slot0 tick_count
	putI32(r, 52, buf0Offset)  // slot0 buf_offset
	putI32(r, 64, 12)          // slot1 tick_count
	putI32(r, 68, buf1Offset)  // slot1 buf_offset

	// VarHeader "Speed" (float32, offset 0, count 1).
	putI32(r, varHeaderOffset, 4) // VarTypeFloat
	putI32(r, varHeaderOffset+4, 0)
	putI32(r, varHeaderOffset+8, 1)
	copy(r[varHeaderOffset+16:], "Speed")

	// VarHeader "Lap" (int32, offset 4, count 1).
	const lapHeader = varHeaderOffset + 144
	putI32(r, lapHeader, 2) // VarTypeInt
	putI32(r, lapHeader+4, 4)
	putI32(r, lapHeader+8, 1)
	copy(r[lapHeader+16:], "Lap")

	// Sample data for the two rotating buffers.
	putF32(r, buf0Offset, 55.5)
	putI32(r, buf0Offset+4, 3)
	putF32(r, buf1Offset, 99.9)
	putI32(r, buf1Offset+4, 9)

	// Session-info window: a WeekendInfo block, followed by zero-filled
	// space reserved for a SessionNum block to be written in later.
	prefix := "\nWeekendInfo:\n  TrackName: test\n\n"
	copy(r[sessionOffset:], prefix)

	path := filepath.Join(t.TempDir(), "fixture.bin")
	if err := os.WriteFile(path, r, 0644); err != nil {
		t.Fatal(err)
	}
	return clientFixture{path: path, sessionInfoOffset: sessionOffset, sessionInfoPrefix: len(prefix)}
}

func newTestClient(t *testing.T, fx clientFixture) *Client {
	t.Helper()
	cfg := sdkconfig.DefaultConfig()
	cfg.EventTimeout = 10 * time.Millisecond
	c := New(cfg)
	ok, err := c.Startup(context.Background(), fx.path, "")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Startup() = false, want true")
	}
	return c
}

func TestGetTelemetryVarUsesLatestPublished(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	v, err := c.Get(context.Background(), "Speed")
	if err != nil {
		t.Fatal(err)
	}
	if v.(float32) != 55.5 {
		t.Fatalf("Get(Speed) = %v, want 55.5 (from the second-largest-tick buffer)", v)
	}
}

func TestFreezeLatestPicksLargestTick(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	if err := c.FreezeLatest(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := c.Get(context.Background(), "Speed")
	if err != nil {
		t.Fatal(err)
	}
	if v.(float32) != 99.9 {
		t.Fatalf("Get(Speed) after FreezeLatest = %v, want 99.9 (largest tick_count)", v)
	}

	c.UnfreezeLatest()
	v, err = c.Get(context.Background(), "Speed")
	if err != nil {
		t.Fatal(err)
	}
	if v.(float32) != 55.5 {
		t.Fatalf("Get(Speed) after UnfreezeLatest = %v, want 55.5 (back to live)", v)
	}
}

func TestGetSessionInfoKey(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	v, err := c.Get(context.Background(), "WeekendInfo")
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Get(WeekendInfo) = %T, want map[string]any", v)
	}
	if m["TrackName"] != "test" {
		t.Fatalf("WeekendInfo.TrackName = %v, want %q", m["TrackName"], "test")
	}
}

func TestGetUnknownNameReturnsNil(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	v, err := c.Get(context.Background(), "NotARealName")
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("Get(unknown) = %v, want nil", v)
	}
}

func TestIsConnectedSettlesOnceSessionNumResolves(t *testing.T) {
	fx := buildClientFixture(t, false)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	connected, err := c.IsConnected(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if connected {
		t.Fatal("IsConnected() = true before SessionNum resolves, want false")
	}

	// Insert the SessionNum block into the still-live region bytes,
	// simulating the simulator publishing it a tick later.
	region := c.source.Bytes()
	block := "SessionNum:\n  num: 0\n\n"
	copy(region[fx.sessionInfoOffset+fx.sessionInfoPrefix:], block)

	connected, err = c.IsConnected(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !connected {
		t.Fatal("IsConnected() = false after SessionNum resolves, want true")
	}
}

func TestIsConnectedTrueWhenStatusBitSet(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	connected, err := c.IsConnected(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !connected {
		t.Fatal("IsConnected() = false with status bit set, want true")
	}
}

func TestVarNamesListsDeclaredVariables(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	names, err := c.VarNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Speed" || names[1] != "Lap" {
		t.Fatalf("VarNames() = %v, want [Speed Lap]", names)
	}
}

func TestParseToWritesSortedDocument(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	out := filepath.Join(t.TempDir(), "parsed.txt")
	if err := c.ParseTo(context.Background(), out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	lapIdx := strings.Index(text, "Lap")
	speedIdx := strings.Index(text, "Speed")
	if lapIdx < 0 || speedIdx < 0 || lapIdx > speedIdx {
		t.Fatalf("ParseTo output not sorted case-insensitively by name:\n%s", text)
	}
}

func TestParseToNormalizesSessionInfoDocument(t *testing.T) {
	fx := buildClientFixture(t, true)

	// Overwrite the reserved gap after the WeekendInfo block with a
	// disallowed high byte, simulating an un-normalized producer write.
	data, err := os.ReadFile(fx.path)
	if err != nil {
		t.Fatal(err)
	}
	data[fx.sessionInfoOffset+fx.sessionInfoPrefix] = 0x81
	if err := os.WriteFile(fx.path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, fx)
	defer c.Shutdown()

	out := filepath.Join(t.TempDir(), "parsed.txt")
	if err := c.ParseTo(context.Background(), out); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsRune(string(written), 0x81) {
		t.Fatalf("ParseTo() output retained an un-normalized high byte:\n%s", written)
	}
}

func TestBroadcastFailsWithTaggedErrorOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("broadcast posting succeeds on windows; this test covers the no-target hosts")
	}
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	defer c.Shutdown()

	// The broadcast window target only exists on Windows; on every other
	// host Post always fails, and Client wraps that failure in
	// ErrBroadcastFailed regardless of attach state.
	err := c.Broadcast().PitCommand(0, 0)
	if !errors.Is(err, ErrBroadcastFailed) {
		t.Fatalf("Broadcast().PitCommand() error = %v, want ErrBroadcastFailed", err)
	}
}

func TestShutdownClearsClientState(t *testing.T) {
	fx := buildClientFixture(t, true)
	c := newTestClient(t, fx)
	c.Shutdown()

	if _, err := c.Get(context.Background(), "Speed"); err != ErrDetached {
		t.Fatalf("Get() after Shutdown = %v, want ErrDetached", err)
	}
}
