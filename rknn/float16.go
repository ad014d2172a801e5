package rknn

import (
	"sync"

	"github.com/x448/float16"
)

var (
	// halfTable maps every fp16 bit pattern to its float32 value.  It is
	// built on the first fp16 output so float models do not pay for it.
	halfTable     []float32
	halfTableOnce sync.Once
)

func buildHalfTable() {
	halfTable = make([]float32, 1<<16)

	for i := range halfTable {
		halfTable[i] = float16.Frombits(uint16(i)).Float32()
	}
}

// halfToFloat32 widens fp16 output tensor values copied out of C memory
func halfToFloat32(src []uint16) []float32 {

	halfTableOnce.Do(buildHalfTable)

	dst := make([]float32, len(src))

	for i, bits := range src {
		dst[i] = halfTable[bits]
	}

	return dst
}
