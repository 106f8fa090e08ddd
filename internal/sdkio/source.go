// Package sdkio implements source attachment (spec component C3): opening
// either a live shared-memory region plus its data-valid event, or a
// file-backed region for --test / disk-reader use, and waiting on the
// data-valid event with cancellation support.
package sdkio

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/voyagen/irsdk/internal/sdkio/platform"
	"github.com/voyagen/irsdk/internal/telemlog"
)

// ErrSimUnavailable is the error the platform layer returns on a host with
// no live-sim backend. Startup does not return it: a negative liveness
// probe, an event handle that cannot be opened, or an event wait that times
// out are all reported as (false, nil).
var ErrSimUnavailable = platform.ErrUnsupported

// Source owns the attached byte region and (for a live attachment) the
// data-valid event. It is the sole owner of both; Header/VarHeader views
// elsewhere are just lazy readers over the Bytes() it exposes.
type Source struct {
	probe   *SimStatusProbe
	timeout time.Duration

	region      []byte
	closeRegion func() error
	event       platform.EventHandle
	isTestFile  bool
	attached    bool

	id uuid.UUID
}

// New returns a Source that waits up to timeout per event-wait call.
func New(timeout time.Duration) *Source {
	return &Source{probe: NewSimStatusProbe(), timeout: timeout, id: uuid.New()}
}

// Bytes returns the currently attached region, or nil if not attached.
func (s *Source) Bytes() []byte { return s.region }

// Attached reports whether Startup has succeeded and Shutdown has not
// since been called.
func (s *Source) Attached() bool { return s.attached }

// Startup attaches to the simulator (or, if testFile is set, to a
// recorded/dumped region file) and reports success per spec §4.3.
// Startup is idempotent: calling it again while already attached is a
// no-op returning true.
func (s *Source) Startup(ctx context.Context, testFile, dumpTo string) (bool, error) {
	if s.attached {
		return true, nil
	}
	s.id = uuid.New()

	if testFile == "" {
		if !s.probe.Running(ctx) {
			telemlog.Debug("sim not running", "attach_id", s.id)
			return false, nil
		}
		ev, err := platform.OpenEvent(DataValidEvent)
		if err != nil {
			telemlog.Debug("failed to open data-valid event", "attach_id", s.id, "err", err)
			return false, nil
		}
		signaled, err := waitCancelable(ctx, ev, s.timeout)
		if err != nil {
			ev.Close()
			return false, fmt.Errorf("sdkio: wait for data-valid event: %w", err)
		}
		if !signaled {
			ev.Close()
			telemlog.Debug("data-valid event did not signal within timeout", "attach_id", s.id)
			return false, nil
		}
		region, err := platform.OpenLiveRegion(MemMapName, MemMapMaxSize)
		if err != nil {
			ev.Close()
			telemlog.Debug("failed to open live region", "attach_id", s.id, "err", err)
			return false, nil
		}
		s.event = ev
		s.region = region.Bytes()
		s.closeRegion = region.Close
	} else {
		data, err := os.ReadFile(testFile)
		if err != nil {
			return false, fmt.Errorf("sdkio: open test file %q: %w", testFile, err)
		}
		s.region = data
		s.isTestFile = true
	}

	if dumpTo != "" {
		if err := os.WriteFile(dumpTo, s.region, 0644); err != nil {
			return false, fmt.Errorf("sdkio: dump region to %q: %w", dumpTo, err)
		}
	}

	version, numBuf, ok := s.headerSanity()
	if !ok {
		return false, nil
	}
	s.attached = version >= 1 && numBuf > 0
	if !s.attached {
		s.closeLocked()
	}
	return s.attached, nil
}

// headerSanity reads the two fields startup's success test depends on
// (version at offset 0, num_buf at offset 32) directly from the region
// bytes rather than through the layout package's Header view.
func (s *Source) headerSanity() (version, numBuf int32, ok bool) {
	if len(s.region) < 40 {
		return 0, 0, false
	}
	le := func(o int) int32 {
		return int32(s.region[o]) | int32(s.region[o+1])<<8 | int32(s.region[o+2])<<16 | int32(s.region[o+3])<<24
	}
	return le(0), le(32), true
}

// WaitDataValid blocks (honoring ctx cancellation) until the data-valid
// event signals or the timeout elapses. File-backed sources have no event
// and always report true immediately — every record is already "valid".
func (s *Source) WaitDataValid(ctx context.Context) (bool, error) {
	if s.isTestFile {
		return true, nil
	}
	if s.event == nil {
		return false, ErrDetached
	}
	return waitCancelable(ctx, s.event, s.timeout)
}

// Shutdown releases the region, event, and test-file handles. Safe to
// call from any state, including never-attached.
func (s *Source) Shutdown() {
	s.closeLocked()
}

func (s *Source) closeLocked() {
	if s.event != nil {
		s.event.Close()
		s.event = nil
	}
	if s.closeRegion != nil {
		s.closeRegion()
		s.closeRegion = nil
	}
	s.region = nil
	s.isTestFile = false
	s.attached = false
}

// waitCancelable wraps a blocking EventHandle.Wait in a goroutine so ctx
// cancellation can return control to the caller promptly; cancellation
// does not consume a tick, it just stops waiting for this call.
func waitCancelable(ctx context.Context, ev platform.EventHandle, timeout time.Duration) (bool, error) {
	type result struct {
		signaled bool
		err      error
	}
	done := make(chan result, 1)
	go func() {
		signaled, err := ev.Wait(timeout)
		done <- result{signaled, err}
	}()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-done:
		return r.signaled, r.err
	}
}
