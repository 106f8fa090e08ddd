package irsdk

import (
	"context"

	"github.com/voyagen/irsdk/internal/layout"
)

// Get resolves name to a telemetry value (spec component C6) or, if name
// is not a telemetry variable, to a session-info document fragment (C7).
// A telemetry result is a scalar when the variable's count is 1, else an
// ordered sequence; a session-info result is a nested document value. If
// name is neither a telemetry variable nor a resolvable session-info key,
// Get returns (nil, nil): session-info misses are not distinguishable from
// transient parse failures, and both degrade to an absent result rather
// than an error.
func (c *Client) Get(ctx context.Context, name string) (any, error) {
	if !c.source.Attached() {
		return nil, ErrDetached
	}
	c.catalog.build(c.header())
	if c.catalog.err != nil {
		return nil, c.catalog.err
	}

	if vh, ok := c.catalog.byName[name]; ok {
		return c.getTelemetryVar(vh)
	}
	return c.getSessionInfo(ctx, name)
}

func (c *Client) getTelemetryVar(vh layout.VarHeader) (any, error) {
	typ, err := vh.Type()
	if err != nil {
		return nil, err
	}
	count, err := vh.Count()
	if err != nil {
		return nil, err
	}
	varOffset, err := vh.VarOffset()
	if err != nil {
		return nil, err
	}

	var buf []byte
	if c.frozen != nil {
		buf, err = c.frozen.Bytes()
	} else {
		h := c.header()
		bufs, berr := h.VarBuffers()
		if berr != nil {
			return nil, berr
		}
		vb, lerr := latestPublished(bufs)
		if lerr != nil {
			return nil, lerr
		}
		buf, err = vb.Bytes()
	}
	if err != nil {
		return nil, err
	}

	val, err := layout.DecodeVar(buf, int(varOffset), typ, count)
	if err != nil {
		return nil, err
	}
	if val.Scalar {
		return val.One, nil
	}
	return val.Many, nil
}

func (c *Client) getSessionInfo(ctx context.Context, key string) (any, error) {
	h := c.header()
	currentUpdate, err := h.SessionInfoUpdate()
	if err != nil {
		return nil, err
	}
	off, err := h.SessionInfoOffset()
	if err != nil {
		return nil, err
	}
	ln, err := h.SessionInfoLen()
	if err != nil {
		return nil, err
	}
	region := c.source.Bytes()
	end := int(off) + int(ln)
	if int(off) < 0 || end > len(region) {
		return nil, nil
	}
	window := region[off:end]

	// Session-info misses and internal parse failures both degrade to a
	// null result (spec §7): the cache never raises, and an unresolved
	// key here means name was neither a telemetry variable nor a
	// resolvable session-info key.
	return runSuspension(ctx, func() (any, error) {
		return c.sessionCache.Get(window, currentUpdate, key), nil
	})
}
