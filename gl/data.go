package gl

// ElementType infers the GL component type from a typed slice.
func ElementType(data any) (Enum, bool) {
	switch data.(type) {
	case []float32:
		return FLOAT, true
	case []uint16:
		return UNSIGNED_SHORT, true
	case []uint32:
		return UNSIGNED_INT, true
	case []uint8:
		return UNSIGNED_BYTE, true
	case []int8:
		return BYTE, true
	case []int16:
		return SHORT, true
	case []int32:
		return INT, true
	}
	return 0, false
}

// BytesPerElement returns the size of one component of the given type.
func BytesPerElement(typ Enum) int {
	switch typ {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case INT, UNSIGNED_INT, FLOAT:
		return 4
	}
	return 0
}

// Len returns the number of elements of a typed slice, or 0 for anything else.
func Len(data any) int {
	switch d := data.(type) {
	case []float32:
		return len(d)
	case []uint16:
		return len(d)
	case []uint32:
		return len(d)
	case []uint8:
		return len(d)
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	}
	return 0
}

// ByteLen returns the size in bytes of a typed slice.
func ByteLen(data any) int {
	typ, ok := ElementType(data)
	if !ok {
		return 0
	}
	return Len(data) * BytesPerElement(typ)
}

// Float reads element i of a typed slice as a float32.
func Float(data any, i int) float32 {
	switch d := data.(type) {
	case []float32:
		return d[i]
	case []uint16:
		return float32(d[i])
	case []uint32:
		return float32(d[i])
	case []uint8:
		return float32(d[i])
	case []int8:
		return float32(d[i])
	case []int16:
		return float32(d[i])
	case []int32:
		return float32(d[i])
	}
	return 0
}

// Index reads element i of an index slice.
func Index(data any, i int) int {
	switch d := data.(type) {
	case []uint16:
		return int(d[i])
	case []uint32:
		return int(d[i])
	case []uint8:
		return int(d[i])
	case []int32:
		return int(d[i])
	}
	return 0
}
