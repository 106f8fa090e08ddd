package layout

// Value is the tagged-variant result of decoding a telemetry variable: a
// scalar when Count == 1, otherwise an ordered sequence of Count elements.
// Telemetry values and session-info document values are deliberately
// modeled as distinct types (this one, and sessioninfo's document tree) —
// they never mix, per the spec's dynamic-typing design note.
type Value struct {
	Scalar bool
	One    any
	Many   []any
}

// DecodeVar unpacks count elements of the given type starting at byte
// offset o in region r, returning a scalar Value when count == 1 and a
// sequence Value otherwise.
func DecodeVar(r []byte, o int, t VarType, count int32) (Value, error) {
	size := t.Size()
	if size == 0 {
		return Value{}, &OutOfBoundsError{Offset: o, Need: 0, Len: len(r)}
	}
	if count == 1 {
		v, err := ReadScalar(r, o, t)
		if err != nil {
			return Value{}, err
		}
		return Value{Scalar: true, One: v}, nil
	}
	out := make([]any, 0, count)
	for i := int32(0); i < count; i++ {
		v, err := ReadScalar(r, o+int(i)*size, t)
		if err != nil {
			return Value{}, err
		}
		out = append(out, v)
	}
	return Value{Scalar: false, Many: out}, nil
}
