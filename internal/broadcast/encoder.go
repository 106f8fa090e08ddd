package broadcast

import (
	"math"
	"strings"
)

// Word is the encoded (wparam, lparam) pair posted as the broadcast
// message. Encoding is a pure function; only Sender.Post has a side effect.
type Word struct {
	WParam uint32
	LParam uint32
}

// Encode packs (kind, a, b, c) into the two broadcast words:
// wparam = kind | (a << 16), lparam = b | (c << 16).
func Encode(kind, a, b, c uint16) Word {
	return Word{
		WParam: uint32(kind) | uint32(a)<<16,
		LParam: uint32(b) | uint32(c)<<16,
	}
}

// Decode is Encode's inverse, used by the broadcast round-trip property.
func Decode(w Word) (kind, a, b, c uint16) {
	kind = uint16(w.WParam & 0xFFFF)
	a = uint16(w.WParam >> 16)
	b = uint16(w.LParam & 0xFFFF)
	c = uint16(w.LParam >> 16)
	return
}

// EncodeMaxForce fixed-points a force-feedback max-force value into the
// broadcast word's 'a' field: round(value * 65536).
func EncodeMaxForce(value float32) uint16 {
	return uint16(int32(math.Round(float64(value) * 65536)))
}

// PadCarNum pads a leading-zero car number so the receiver can recover
// "07" from "7": the padding adds 1000*(digit_places + leading_zero_count)
// to the plain integer value of num. When num is all zeros, one of its
// zeros does not count, so "0" is returned unpadded (0) while "00" pads to
// 2000.
func PadCarNum(num string) int {
	numLen := len(num)
	stripped := strings.TrimLeft(num, "0")
	zeros := numLen - len(stripped)
	if zeros > 0 && numLen == zeros {
		// num is entirely zeros ("0", "00", ...): one zero does not count.
		zeros--
	}
	n := 0
	for _, c := range num {
		n = n*10 + int(c-'0')
	}
	if zeros == 0 {
		return n
	}
	var place int
	switch {
	case n > 99:
		place = 3
	case n > 9:
		place = 2
	default:
		place = 1
	}
	return n + 1000*(place+zeros)
}
