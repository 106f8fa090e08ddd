// Package platform isolates the OS primitives the core decoder needs from
// a host: opening a named shared-memory region, opening a named kernel
// event and waiting on it, and (in the broadcast package) posting a
// window message. Only the contract each primitive must satisfy lives
// here — the real implementation is platform-specific and selected by
// build tag, the way the teacher's sandbox package splits linux.go /
// apple.go / deny_other.go behind one Sandbox interface.
package platform

import (
	"errors"
	"time"
)

// ErrUnsupported is returned by every operation on a host that has no
// platform backend (anything but Windows, for the live source — file
// sources never touch this package).
var ErrUnsupported = errors.New("platform: no live-sim backend on this OS")

// EventHandle is a waitable kernel object. Wait blocks up to timeout and
// reports whether the object was signaled before the deadline elapsed.
type EventHandle interface {
	Wait(timeout time.Duration) (signaled bool, err error)
	Close() error
}

// Region is a read-only view of OS-managed shared memory.
type Region interface {
	Bytes() []byte
	Close() error
}

// OpenLiveRegion maps the named shared-memory region of at most maxSize
// bytes, read-only.
func OpenLiveRegion(name string, maxSize int) (Region, error) {
	return openLiveRegion(name, maxSize)
}

// OpenEvent opens a named, existing kernel event for synchronize-only access.
func OpenEvent(name string) (EventHandle, error) {
	return openEvent(name)
}
