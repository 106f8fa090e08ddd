package irsdk

import (
	"sync"

	"github.com/voyagen/irsdk/internal/layout"
)

// catalog is the name -> VarHeader lookup table, built once per attachment
// (spec component C4). The simulator does not renegotiate the variable
// set within a connection, so the catalog is invalidated only on
// shutdown/rebind, never on individual ticks.
type catalog struct {
	once    sync.Once
	headers []layout.VarHeader
	byName  map[string]layout.VarHeader
	names   []string
	err     error
}

func (c *catalog) build(h layout.Header) {
	c.once.Do(func() {
		numVars, err := h.NumVars()
		if err != nil {
			c.err = err
			return
		}
		varHeaderOffset, err := h.VarHeaderOffset()
		if err != nil {
			c.err = err
			return
		}

		c.headers = make([]layout.VarHeader, 0, numVars)
		c.byName = make(map[string]layout.VarHeader, numVars)
		c.names = make([]string, 0, numVars)

		for i := int32(0); i < numVars; i++ {
			vh := layout.VarHeader{
				Region: h.Region,
				Offset: int(varHeaderOffset) + int(i)*layout.VarHeaderSize,
			}
			name, err := vh.Name()
			if err != nil {
				c.err = err
				return
			}
			c.headers = append(c.headers, vh)
			// Name collisions are resolved last-write-wins; they do not
			// occur in practice, but the rule is deterministic either way.
			if _, exists := c.byName[name]; !exists {
				c.names = append(c.names, name)
			}
			c.byName[name] = vh
		}
	})
}

func (c *catalog) reset() {
	*c = catalog{}
}
