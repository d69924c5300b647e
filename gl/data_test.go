package gl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementType(t *testing.T) {
	tests := []struct {
		data  any
		typ   Enum
		bytes int
	}{
		{[]float32{1, 2, 3}, FLOAT, 12},
		{[]uint16{1, 2}, UNSIGNED_SHORT, 4},
		{[]uint32{1}, UNSIGNED_INT, 4},
		{[]uint8{1, 2, 3, 4}, UNSIGNED_BYTE, 4},
		{[]int16{1}, SHORT, 2},
	}
	for _, tc := range tests {
		typ, ok := ElementType(tc.data)
		assert.True(t, ok)
		assert.Equal(t, tc.typ, typ)
		assert.Equal(t, tc.bytes, ByteLen(tc.data))
	}

	_, ok := ElementType([]float64{1})
	assert.False(t, ok)
	assert.Equal(t, 0, ByteLen("nope"))
}

func TestMatrixLocations(t *testing.T) {
	assert.Equal(t, 1, MatrixLocations(FLOAT_VEC4))
	assert.Equal(t, 2, MatrixLocations(FLOAT_MAT2))
	assert.Equal(t, 3, MatrixLocations(FLOAT_MAT3))
	assert.Equal(t, 4, MatrixLocations(FLOAT_MAT4))
}

func TestIndexAndFloat(t *testing.T) {
	assert.Equal(t, 7, Index([]uint16{3, 7}, 1))
	assert.Equal(t, 9, Index([]uint32{9}, 0))
	assert.Equal(t, float32(2.5), Float([]float32{1, 2.5}, 1))
	assert.Equal(t, float32(200), Float([]uint8{200}, 0))
}
