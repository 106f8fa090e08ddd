package layout

// Header is a lazy view over the fixed header at the start of a shared
// telemetry region. Every field is a computed read rather than a value
// snapshotted at attach time, so the view stays correct across legitimate
// re-reads of the region (e.g. after a rebind).
type Header struct {
	Region []byte
}

const (
	headerOffVersion           = 0
	headerOffStatus             = 4
	headerOffTickRate           = 8
	headerOffSessionInfoUpdate = 12
	headerOffSessionInfoLen     = 16
	headerOffSessionInfoOffset  = 20
	headerOffNumVars            = 24
	headerOffVarHeaderOffset    = 28
	headerOffNumBuf             = 32
	headerOffBufLen             = 36
	headerVarBufStart           = 48
	headerVarBufEntrySize       = 16
)

func (h Header) Version() (int32, error) { return readI32(h.Region, headerOffVersion) }
func (h Header) Status() (int32, error)   { return readI32(h.Region, headerOffStatus) }
func (h Header) TickRate() (int32, error) { return readI32(h.Region, headerOffTickRate) }

func (h Header) SessionInfoUpdate() (int32, error) {
	return readI32(h.Region, headerOffSessionInfoUpdate)
}
func (h Header) SessionInfoLen() (int32, error) { return readI32(h.Region, headerOffSessionInfoLen) }
func (h Header) SessionInfoOffset() (int32, error) {
	return readI32(h.Region, headerOffSessionInfoOffset)
}
func (h Header) NumVars() (int32, error)         { return readI32(h.Region, headerOffNumVars) }
func (h Header) VarHeaderOffset() (int32, error) { return readI32(h.Region, headerOffVarHeaderOffset) }
func (h Header) NumBuf() (int32, error)           { return readI32(h.Region, headerOffNumBuf) }
func (h Header) BufLen() (int32, error)           { return readI32(h.Region, headerOffBufLen) }

// StatusConnected reports bit 0 of Status: "connected".
func (h Header) StatusConnected() (bool, error) {
	s, err := h.Status()
	if err != nil {
		return false, err
	}
	return s&1 != 0, nil
}

// VarBuffers returns a view per rotating telemetry buffer declared by NumBuf.
func (h Header) VarBuffers() ([]VarBuffer, error) {
	n, err := h.NumBuf()
	if err != nil {
		return nil, err
	}
	bufLen, err := h.BufLen()
	if err != nil {
		return nil, err
	}
	bufs := make([]VarBuffer, 0, n)
	for i := int32(0); i < n; i++ {
		bufs = append(bufs, VarBuffer{
			Region: h.Region,
			Offset: int(headerVarBufStart + i*headerVarBufEntrySize),
			Len:    int(bufLen),
		})
	}
	return bufs, nil
}
