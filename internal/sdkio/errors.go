package sdkio

import "errors"

// ErrDetached is returned by operations that require an attached source
// when none is attached.
var ErrDetached = errors.New("sdkio: source not attached")
