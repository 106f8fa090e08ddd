package irsdk

import "errors"

// Error kinds from spec §7. An unknown variable or session-info key and a
// failed session-info parse are both handled internally and degrade to a
// nil Get result rather than an error — they are not Go error values.
var (
	// ErrDetached is returned by operations that require an attached
	// source when Startup has not succeeded (or Shutdown has run since).
	ErrDetached = errors.New("irsdk: client not attached")

	// ErrSimUnavailable is returned by FreezeLatest when the data-valid
	// event does not signal within the configured timeout. Startup reports
	// an unreachable simulator as (false, nil) instead.
	ErrSimUnavailable = errors.New("irsdk: simulator unavailable")

	// ErrBroadcastFailed reports a failed broadcast post; non-fatal.
	ErrBroadcastFailed = errors.New("irsdk: broadcast post failed")
)
