// Package ibt reads recorded iRacing telemetry sessions (.ibt files): the
// same Header/VarHeader layout as the live shared-memory region, plus a
// DiskSubHeader describing a contiguous array of fixed-size records. Unlike
// the live client, a Reader is a plain random-access file view — no event
// handle, no session-info refresh, no broadcast surface.
package ibt

import (
	"errors"
	"fmt"
	"os"

	"github.com/voyagen/irsdk/internal/layout"
)

// ErrClosed is returned by every Reader method other than Close once Close
// has been called.
var ErrClosed = errors.New("ibt: reader closed")

// ErrOutOfRange is returned by Get when index is outside
// [0, session_record_count).
var ErrOutOfRange = errors.New("ibt: record index out of range")

// Reader provides random-access reads over a recorded telemetry file. It
// holds the whole file in memory: recordings are bounded by a single
// session and the simulator itself writes them the same way.
type Reader struct {
	data    []byte
	header  layout.Header
	sub     layout.DiskSubHeader
	catalog map[string]layout.VarHeader
	names   []string
	recLen  int
	recBase int
}

// Open reads path into memory and validates the common Header and
// DiskSubHeader before returning a ready Reader.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ibt: open %s: %w", path, err)
	}

	h := layout.Header{Region: data}
	numVars, err := h.NumVars()
	if err != nil {
		return nil, fmt.Errorf("ibt: %s: reading header: %w", path, err)
	}
	varHeaderOffset, err := h.VarHeaderOffset()
	if err != nil {
		return nil, fmt.Errorf("ibt: %s: reading header: %w", path, err)
	}
	bufLen, err := h.BufLen()
	if err != nil {
		return nil, fmt.Errorf("ibt: %s: reading header: %w", path, err)
	}
	bufs, err := h.VarBuffers()
	if err != nil {
		return nil, fmt.Errorf("ibt: %s: reading var buffers: %w", path, err)
	}
	if len(bufs) == 0 {
		return nil, fmt.Errorf("ibt: %s: no record buffer declared", path)
	}
	recBaseI32, err := bufs[0].BufOffset()
	if err != nil {
		return nil, fmt.Errorf("ibt: %s: reading record base offset: %w", path, err)
	}
	recBase := int(recBaseI32)

	sub := layout.DiskSubHeader{Region: data, Offset: layout.DiskSubHeaderOffset}
	if _, err := sub.SessionRecordCount(); err != nil {
		return nil, fmt.Errorf("ibt: %s: reading disk sub-header: %w", path, err)
	}

	r := &Reader{
		data:    data,
		header:  h,
		sub:     sub,
		catalog: make(map[string]layout.VarHeader, numVars),
		names:   make([]string, 0, numVars),
		recLen:  int(bufLen),
		recBase: recBase,
	}
	for i := int32(0); i < numVars; i++ {
		vh := layout.VarHeader{
			Region: data,
			Offset: int(varHeaderOffset) + int(i)*layout.VarHeaderSize,
		}
		name, err := vh.Name()
		if err != nil {
			return nil, fmt.Errorf("ibt: %s: reading var header %d: %w", path, i, err)
		}
		if _, exists := r.catalog[name]; !exists {
			r.names = append(r.names, name)
		}
		r.catalog[name] = vh
	}
	return r, nil
}

// Close releases the in-memory copy of the file. Safe to call more than
// once.
func (r *Reader) Close() error {
	r.data = nil
	return nil
}

func (r *Reader) closed() bool { return r.data == nil }

// RecordCount returns the DiskSubHeader's session_record_count.
func (r *Reader) RecordCount() (int32, error) {
	if r.closed() {
		return 0, ErrClosed
	}
	return r.sub.SessionRecordCount()
}

// SubHeader exposes the decoded DiskSubHeader directly, for callers that
// want the session start/end timing or lap count.
func (r *Reader) SubHeader() (layout.DiskSubHeader, error) {
	if r.closed() {
		return layout.DiskSubHeader{}, ErrClosed
	}
	return r.sub, nil
}

// VarNames returns every variable name declared by the file's VarHeader
// table, in declaration order.
func (r *Reader) VarNames() ([]string, error) {
	if r.closed() {
		return nil, ErrClosed
	}
	return r.names, nil
}

func (r *Reader) recordOffset(index int) int {
	return r.recBase + index*r.recLen
}

// Get unpacks name's value at record index. Bounds are
// 0 <= index < session_record_count, checked against the DiskSubHeader,
// not merely against the file's physical length.
func (r *Reader) Get(index int, name string) (any, error) {
	if r.closed() {
		return nil, ErrClosed
	}
	count, err := r.sub.SessionRecordCount()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= int(count) {
		return nil, fmt.Errorf("%w: %d (have %d records)", ErrOutOfRange, index, count)
	}
	vh, ok := r.catalog[name]
	if !ok {
		return nil, fmt.Errorf("ibt: unknown variable %q", name)
	}
	typ, err := vh.Type()
	if err != nil {
		return nil, err
	}
	varCount, err := vh.Count()
	if err != nil {
		return nil, err
	}
	varOffset, err := vh.VarOffset()
	if err != nil {
		return nil, err
	}

	recOff := r.recordOffset(index)
	if recOff+r.recLen > len(r.data) {
		return nil, fmt.Errorf("%w: record %d extends past end of file", ErrOutOfRange, index)
	}
	record := r.data[recOff : recOff+r.recLen]

	val, err := layout.DecodeVar(record, int(varOffset), typ, varCount)
	if err != nil {
		return nil, err
	}
	if val.Scalar {
		return val.One, nil
	}
	return val.Many, nil
}

// GetAll returns name's value across every record, in record order.
func (r *Reader) GetAll(name string) ([]any, error) {
	if r.closed() {
		return nil, ErrClosed
	}
	count, err := r.sub.SessionRecordCount()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.Get(i, name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
