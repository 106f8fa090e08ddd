// Package irsdk is a client for iRacing's shared-memory telemetry SDK: it
// attaches to the simulator's shared region, decodes its self-describing
// binary layout, and exposes per-tick telemetry variables, a
// periodically-refreshed session-info document, and an outbound
// broadcast-command surface.
package irsdk

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/voyagen/irsdk/internal/broadcast"
	"github.com/voyagen/irsdk/internal/layout"
	"github.com/voyagen/irsdk/internal/sdkconfig"
	"github.com/voyagen/irsdk/internal/sdkio"
	"github.com/voyagen/irsdk/internal/sessioninfo"
	"github.com/voyagen/irsdk/internal/telemlog"
)

// connectedWorkaround tracks the status-bit / SessionNum bootstrap dance
// from spec §9's Open Questions: the source status bit flips to
// "connected" before SessionNum is queryable, so is_connected() must
// bridge that gap rather than trust the status bit alone.
type connectedWorkaround int

const (
	workaroundIdle connectedWorkaround = iota
	workaroundAwaitingDrop
	workaroundAwaitingSessionNum
	workaroundSettled
)

// Client is the live-telemetry entry point (spec components C3-C8 as seen
// from the caller). It is not safe for concurrent use from multiple
// goroutines: the frozen snapshot and the session-info cache are the only
// mutable state it owns, and the contract forbids concurrent access to
// both.
type Client struct {
	cfg    sdkconfig.Config
	source *sdkio.Source

	catalog catalog
	frozen  *layout.VarBuffer

	sessionCache      *sessioninfo.Cache
	lastSessionUpdate int32
	seenSessionUpdate bool

	broadcaster *broadcast.Broadcaster
	workaround  connectedWorkaround
}

// New returns a Client configured from cfg (use sdkconfig.DefaultConfig()
// for the reference protocol's defaults).
func New(cfg sdkconfig.Config) *Client {
	return &Client{
		cfg:          cfg,
		source:       sdkio.New(cfg.EventTimeout),
		sessionCache: sessioninfo.NewCache(),
		broadcaster:  broadcast.NewBroadcaster(failureTaggingSender{broadcast.NewSender()}),
	}
}

// failureTaggingSender wraps the platform Sender so every post failure
// surfaces through the Client API as ErrBroadcastFailed (spec §7's
// "BroadcastFailed" error kind), with the underlying platform error
// preserved via %w.
type failureTaggingSender struct {
	broadcast.Sender
}

func (s failureTaggingSender) Post(w broadcast.Word) error {
	if err := s.Sender.Post(w); err != nil {
		return fmt.Errorf("%w: %w", ErrBroadcastFailed, err)
	}
	return nil
}

// Startup attaches to the simulator (or to cfg/explicit testFile) and
// reports success as a bool, never as an error, per spec §4.3 — only a
// genuine platform failure (not "sim not running") propagates as an error.
// Idempotent: calling it again while already attached is a no-op.
func (c *Client) Startup(ctx context.Context, testFile, dumpTo string) (bool, error) {
	if testFile == "" {
		testFile = c.cfg.TestFile
	}
	if dumpTo == "" {
		dumpTo = c.cfg.DumpFile
	}
	ok, err := runSuspension(ctx, func() (bool, error) {
		return c.source.Startup(ctx, testFile, dumpTo)
	})
	if err != nil {
		return false, err
	}
	if ok {
		telemlog.Debug("irsdk: attached", "test_file", testFile != "")
	}
	return ok, nil
}

// Shutdown releases the region, event, and test-file handles and clears
// every cache. Safe to call from any state.
func (c *Client) Shutdown() {
	c.source.Shutdown()
	c.catalog.reset()
	c.frozen = nil
	c.sessionCache = sessioninfo.NewCache()
	c.lastSessionUpdate = 0
	c.seenSessionUpdate = false
	c.workaround = workaroundIdle
}

func (c *Client) header() layout.Header {
	return layout.Header{Region: c.source.Bytes()}
}

// Broadcast returns the command surface (spec component C8) for posting
// control commands back to the simulator. It is valid even when the
// client is not attached — broadcast commands are a one-way, best-effort
// window message post, independent of the shared-memory attach state.
func (c *Client) Broadcast() *broadcast.Broadcaster {
	return c.broadcaster
}

// IsConnected reports whether the client is attached and the simulator
// considers itself connected. It reproduces the source's status-bit /
// SessionNum bootstrap workaround (spec §9): the status bit alone is not
// trustworthy right after attach, so the first successful SessionNum
// resolution is what ultimately settles the connected state.
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	if !c.source.Attached() {
		return false, nil
	}
	connectedBit, err := c.header().StatusConnected()
	if err != nil {
		return false, err
	}

	if connectedBit {
		c.workaround = workaroundIdle
	}
	if c.workaround == workaroundIdle && !connectedBit {
		c.workaround = workaroundAwaitingDrop
	}
	if c.workaround == workaroundAwaitingDrop {
		v, err := c.Get(ctx, "SessionNum")
		if err != nil {
			return false, err
		}
		if v == nil {
			c.workaround = workaroundAwaitingSessionNum
		}
	}
	if c.workaround == workaroundAwaitingSessionNum {
		v, err := c.Get(ctx, "SessionNum")
		if err != nil {
			return false, err
		}
		if v != nil {
			c.workaround = workaroundSettled
		}
	}

	return connectedBit || c.workaround == workaroundSettled, nil
}

// VarNames returns every telemetry variable name in the catalog, in
// declaration order.
func (c *Client) VarNames() ([]string, error) {
	if !c.source.Attached() {
		return nil, ErrDetached
	}
	c.catalog.build(c.header())
	if c.catalog.err != nil {
		return nil, c.catalog.err
	}
	return c.catalog.names, nil
}

// SessionInfoUpdate returns the Header's current session_info_update
// counter.
func (c *Client) SessionInfoUpdate() (int32, error) {
	if !c.source.Attached() {
		return 0, ErrDetached
	}
	return c.header().SessionInfoUpdate()
}

// ParseTo writes the current session-info document followed by every
// telemetry variable's current value, sorted case-insensitively by name,
// to the file at path — the CLI's --parse contract (spec §6).
func (c *Client) ParseTo(ctx context.Context, path string) error {
	if !c.source.Attached() {
		return ErrDetached
	}
	h := c.header()
	off, err := h.SessionInfoOffset()
	if err != nil {
		return err
	}
	ln, err := h.SessionInfoLen()
	if err != nil {
		return err
	}
	region := c.source.Bytes()
	end := int(off) + int(ln)
	if int(off) < 0 || end > len(region) {
		return fmt.Errorf("irsdk: session-info window out of bounds")
	}
	doc, err := sessioninfo.Normalize(region[off:end], "")
	if err != nil {
		return fmt.Errorf("irsdk: normalize session-info document: %w", err)
	}

	names, err := c.VarNames()
	if err != nil {
		return err
	}
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})

	var sb strings.Builder
	sb.WriteString(doc)
	sb.WriteString("\n")
	for _, name := range sorted {
		v, err := c.Get(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "%-32s%v\n", name, v)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
