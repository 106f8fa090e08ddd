package irsdk

import (
	"context"
	"fmt"

	"github.com/voyagen/irsdk/internal/layout"
)

// latestPublished picks the buffer the simulator most recently finished
// writing: the one with the second-largest tick_count. The largest-tick
// buffer is likely mid-write; ties break by slot index descending.
func latestPublished(bufs []layout.VarBuffer) (layout.VarBuffer, error) {
	if len(bufs) == 0 {
		return layout.VarBuffer{}, fmt.Errorf("irsdk: no telemetry buffers declared")
	}
	order := make([]int, len(bufs))
	for i := range order {
		order[i] = i
	}
	ticks := make([]int32, len(bufs))
	for i, b := range bufs {
		tc, err := b.TickCount()
		if err != nil {
			return layout.VarBuffer{}, err
		}
		ticks[i] = tc
	}
	// Sort indices by (tick_count desc, slot index desc) — a small
	// insertion sort is plenty for num_buf in the single digits.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && less(order[j-1], order[j], ticks) {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	if len(order) == 1 {
		return bufs[order[0]], nil
	}
	return bufs[order[1]], nil
}

// less reports whether slot a ranks below slot b under (tick desc, index
// desc), i.e. whether b should sort before a.
func less(a, b int, ticks []int32) bool {
	if ticks[a] != ticks[b] {
		return ticks[a] < ticks[b]
	}
	return a < b
}

func largestTick(bufs []layout.VarBuffer) (layout.VarBuffer, error) {
	if len(bufs) == 0 {
		return layout.VarBuffer{}, fmt.Errorf("irsdk: no telemetry buffers declared")
	}
	best := 0
	bestTick, err := bufs[0].TickCount()
	if err != nil {
		return layout.VarBuffer{}, err
	}
	for i := 1; i < len(bufs); i++ {
		tc, err := bufs[i].TickCount()
		if err != nil {
			return layout.VarBuffer{}, err
		}
		if tc > bestTick || (tc == bestTick && i > best) {
			best, bestTick = i, tc
		}
	}
	return bufs[best], nil
}

// FreezeLatest atomically unfreezes any existing snapshot, waits for a
// tick boundary to pass, then freezes the buffer that just finished
// publishing. At most one frozen snapshot exists per Client at a time.
func (c *Client) FreezeLatest(ctx context.Context) error {
	if !c.source.Attached() {
		return ErrDetached
	}
	c.UnfreezeLatest()

	signaled, err := runSuspension(ctx, func() (bool, error) {
		return c.source.WaitDataValid(ctx)
	})
	if err != nil {
		return err
	}
	if !signaled {
		return ErrSimUnavailable
	}

	h := c.header()
	bufs, err := h.VarBuffers()
	if err != nil {
		return err
	}
	target, err := largestTick(bufs)
	if err != nil {
		return err
	}
	frozen, err := target.Freeze()
	if err != nil {
		return err
	}
	c.frozen = &frozen
	return nil
}

// UnfreezeLatest drops the private snapshot copy, if any; subsequent
// reads fall back to the live region.
func (c *Client) UnfreezeLatest() {
	c.frozen = nil
}
