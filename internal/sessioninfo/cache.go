package sessioninfo

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/voyagen/irsdk/internal/telemlog"
)

// entry is one top-level key's cache state, per spec §3's "session-info
// cache entry" data model.
type entry struct {
	dataBinary []byte
	data       any
	dataLast   any
	update     int32
	hasData    bool
	hasLast    bool
}

// Cache memoizes parsed session-info subtrees per top-level key, refreshed
// only when the region's session_info_update counter advances. It never
// raises to the caller — a parse failure degrades to the last good value,
// or nil if there isn't one yet.
type Cache struct {
	entries map[string]*entry
	lastSeenUpdate int32
	seenAny        bool
}

// NewCache returns an empty session-info cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// UpdateAt returns the session_info_update value at which key's currently
// cached value was produced; ok is false if key has no cached value.
func (c *Cache) UpdateAt(key string) (int32, bool) {
	e, ok := c.entries[key]
	if !ok || !e.hasData {
		return 0, false
	}
	return e.update, true
}

// Get resolves key's value out of window (the region's session-info byte
// slice) at the given session_info_update counter. Per spec §4.7: if the
// counter has advanced since the last call, every entry's data is demoted
// to data_last and cleared first, so this call re-extracts.
func (c *Cache) Get(window []byte, currentUpdate int32, key string) any {
	if !c.seenAny || currentUpdate > c.lastSeenUpdate {
		for _, e := range c.entries {
			if e.hasData {
				e.dataLast = e.data
				e.hasLast = true
			}
			e.data = nil
			e.hasData = false
		}
		c.lastSeenUpdate = currentUpdate
		c.seenAny = true
	}

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if e.hasData {
		return e.data
	}

	c.refresh(window, currentUpdate, key, e)
	if e.hasData {
		return e.data
	}
	if e.hasLast {
		return e.dataLast
	}
	return nil
}

func (c *Cache) refresh(window []byte, currentUpdate int32, key string, e *entry) {
	raw := Extract(window, key)
	if raw == nil {
		if e.hasLast {
			e.data = e.dataLast
			e.hasData = true
		}
		return
	}
	if bytes.Equal(raw, e.dataBinary) && e.hasLast {
		e.data = e.dataLast
		e.hasData = true
		return
	}
	e.dataBinary = append([]byte(nil), raw...)

	normalized, err := Normalize(raw, key)
	if err != nil {
		telemlog.Warn("session-info normalize failed", "key", key, "err", err)
		if e.hasLast {
			e.data = e.dataLast
			e.hasData = true
		}
		return
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(normalized), &doc); err != nil {
		telemlog.Warn("session-info parse failed", "key", key, "err", err)
		if e.hasLast {
			e.data = e.dataLast
			e.hasData = true
		}
		return
	}
	val, ok := doc[key]
	if !ok || val == nil {
		if e.hasLast {
			e.data = e.dataLast
			e.hasData = true
		}
		return
	}
	e.data = val
	e.hasData = true
	e.update = currentUpdate
	e.dataLast = val
	e.hasLast = true
}
