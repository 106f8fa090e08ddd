// Package layout decodes the iRacing shared-memory binary layout: the
// Header, the VarHeader table, the rotating VarBuffers, and the disk-file
// DiskSubHeader. Every view here is lazy — it holds a reference to the
// backing byte region plus a base offset and computes each field on read,
// rather than eagerly copying the region into a struct at attach time.
package layout

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VarType is the type-code table from the simulator ABI: index into
// {char, bool, i32, u32, f32, f64}.
type VarType int32

const (
	VarTypeChar VarType = 0
	VarTypeBool VarType = 1
	VarTypeInt  VarType = 2
	VarTypeUint VarType = 3
	VarTypeFloat VarType = 4
	VarTypeDouble VarType = 5
)

// Size returns the on-wire byte width of a single element of this type.
func (t VarType) Size() int {
	switch t {
	case VarTypeChar, VarTypeBool:
		return 1
	case VarTypeInt, VarTypeUint, VarTypeFloat:
		return 4
	case VarTypeDouble:
		return 8
	default:
		return 0
	}
}

func (t VarType) String() string {
	switch t {
	case VarTypeChar:
		return "char"
	case VarTypeBool:
		return "bool"
	case VarTypeInt:
		return "int"
	case VarTypeUint:
		return "uint"
	case VarTypeFloat:
		return "float"
	case VarTypeDouble:
		return "double"
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

// OutOfBoundsError reports a read past the end of the backing region.
type OutOfBoundsError struct {
	Offset, Need, Len int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("layout: read at offset %d needs %d bytes, region is %d bytes", e.Offset, e.Need, e.Len)
}

// ReadScalar interprets the bytes at offset o in region r as a little-endian
// primitive of the given type and returns it boxed as the matching Go type
// (byte, bool, int32, uint32, float32, or float64).
func ReadScalar(r []byte, o int, t VarType) (any, error) {
	n := t.Size()
	if n == 0 {
		return nil, fmt.Errorf("layout: unknown var type %d", int32(t))
	}
	if o < 0 || o+n > len(r) {
		return nil, &OutOfBoundsError{Offset: o, Need: n, Len: len(r)}
	}
	switch t {
	case VarTypeChar:
		return r[o], nil
	case VarTypeBool:
		return r[o] != 0, nil
	case VarTypeInt:
		return int32(binary.LittleEndian.Uint32(r[o : o+4])), nil
	case VarTypeUint:
		return binary.LittleEndian.Uint32(r[o : o+4]), nil
	case VarTypeFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(r[o : o+4])), nil
	case VarTypeDouble:
		return math.Float64frombits(binary.LittleEndian.Uint64(r[o : o+8])), nil
	default:
		return nil, fmt.Errorf("layout: unknown var type %d", int32(t))
	}
}

func readI32(r []byte, o int) (int32, error) {
	if o < 0 || o+4 > len(r) {
		return 0, &OutOfBoundsError{Offset: o, Need: 4, Len: len(r)}
	}
	return int32(binary.LittleEndian.Uint32(r[o : o+4])), nil
}

func readU64(r []byte, o int) (uint64, error) {
	if o < 0 || o+8 > len(r) {
		return 0, &OutOfBoundsError{Offset: o, Need: 8, Len: len(r)}
	}
	return binary.LittleEndian.Uint64(r[o : o+8]), nil
}

func readF64(r []byte, o int) (float64, error) {
	if o < 0 || o+8 > len(r) {
		return 0, &OutOfBoundsError{Offset: o, Need: 8, Len: len(r)}
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r[o : o+8])), nil
}

// ReadFixedString reads n bytes at offset o, trims trailing NULs, and
// decodes them as latin-1 (a 1:1 byte-to-rune mapping, so this never fails).
func ReadFixedString(r []byte, o, n int) (string, error) {
	if o < 0 || o+n > len(r) {
		return "", &OutOfBoundsError{Offset: o, Need: n, Len: len(r)}
	}
	b := r[o : o+n]
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	b = b[:end]
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes), nil
}
