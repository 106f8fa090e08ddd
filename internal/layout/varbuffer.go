package layout

// VarBuffer is a lazy view over one rotating telemetry-buffer slot's
// 16-byte descriptor entry: (tick_count i32, buf_offset i32, _pad 8 bytes).
// An optional Frozen byte slice, if set, is used in place of Region for
// reads — this is how a freeze()'d copy decouples a consumer from
// concurrent simulator writes.
type VarBuffer struct {
	Region []byte // the live shared region
	Offset int    // offset of this slot's 16-byte descriptor within Region
	Len    int    // buf_len from the Header

	Frozen []byte // private copy, set by Freeze; nil means "read live"
}

// TickCount is the publish counter of whichever buffer this slot currently
// describes. It is always read from the live descriptor table, even when a
// Frozen copy exists, since the descriptor table is metadata, not sample data.
func (b VarBuffer) TickCount() (int32, error) {
	return readI32(b.Region, b.Offset)
}

func (b VarBuffer) rawBufOffset() (int32, error) {
	return readI32(b.Region, b.Offset+4)
}

// BufOffset exposes buf_offset, the live-region (or file) byte offset this
// slot currently describes. Live callers rarely need this directly — Bytes
// already resolves it — but a disk reader walking a contiguous record
// array needs the raw offset to compute each record's base address.
func (b VarBuffer) BufOffset() (int32, error) {
	return b.rawBufOffset()
}

// Freeze copies this slot's buf_len bytes out of the live region into a
// private array and returns a VarBuffer reading from that copy. The
// original is left untouched.
func (b VarBuffer) Freeze() (VarBuffer, error) {
	off, err := b.rawBufOffset()
	if err != nil {
		return VarBuffer{}, err
	}
	start := int(off)
	if start < 0 || start+b.Len > len(b.Region) {
		return VarBuffer{}, &OutOfBoundsError{Offset: start, Need: b.Len, Len: len(b.Region)}
	}
	cp := make([]byte, b.Len)
	copy(cp, b.Region[start:start+b.Len])
	frozen := b
	frozen.Frozen = cp
	return frozen, nil
}

// Bytes returns the bytes to decode telemetry variables from: the frozen
// copy if present, otherwise a live slice based at BufOffset.
func (b VarBuffer) Bytes() ([]byte, error) {
	if b.Frozen != nil {
		return b.Frozen, nil
	}
	off, err := b.rawBufOffset()
	if err != nil {
		return nil, err
	}
	start := int(off)
	if start < 0 || start+b.Len > len(b.Region) {
		return nil, &OutOfBoundsError{Offset: start, Need: b.Len, Len: len(b.Region)}
	}
	return b.Region[start : start+b.Len], nil
}
