package postprocess

// Tensor is a single model output.  Quantized outputs carry their int8 data
// with the affine zero point and scale, otherwise F32 holds the values.
type Tensor struct {
	F32   []float32
	I8    []int8
	ZP    int32
	Scale float32
}

// Len returns the number of elements in the tensor
func (t Tensor) Len() int {
	if t.F32 != nil {
		return len(t.F32)
	}
	return len(t.I8)
}

// At returns the element at idx as a float32, dequantizing if required
func (t Tensor) At(idx int) float32 {
	if t.F32 != nil {
		return t.F32[idx]
	}
	return deqntAffineToF32(t.I8[idx], t.ZP, t.Scale)
}

// deqntAffineToF32 converts a quantized int8 value back to a float32 using
// the provided zero point and scale
func deqntAffineToF32(qnt int8, zp int32, scale float32) float32 {
	return (float32(qnt) - float32(zp)) * scale
}

// clampf restricts val to the range min and max
func clampf(val, min, max float32) float32 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}
