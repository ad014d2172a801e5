package rknn

/*
#include "rknn_api.h"
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"

	"gocv.io/x/gocv"
)

// Inference runs the model on a single uint8 NHWC image and returns the
// output tensors.  The caller must Free the outputs.
func (r *Runtime) Inference(img gocv.Mat, wantFloat bool) (*Outputs, error) {

	if !img.IsContinuous() {
		img = img.Clone()
		defer img.Close()
	}

	data, err := img.DataPtrUint8()

	if err != nil {
		return nil, fmt.Errorf("error getting data pointer to Mat: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("input Mat is empty")
	}

	var input C.rknn_input
	C.memset(unsafe.Pointer(&input), 0, C.sizeof_rknn_input)

	input.index = 0
	input.buf = unsafe.Pointer(&data[0])
	input.size = C.uint32_t(len(data))
	input.pass_through = 0
	input._type = C.RKNN_TENSOR_UINT8
	input.fmt = C.RKNN_TENSOR_NHWC

	ret := C.rknn_inputs_set(r.ctx, 1, &input)

	if ret != C.RKNN_SUCC {
		return nil, fmt.Errorf("C.rknn_inputs_set failed with code %d, error: %s",
			int(ret), ErrorCodes(ret).String())
	}

	ret = C.rknn_run(r.ctx, nil)

	if ret < 0 {
		return nil, fmt.Errorf("C.rknn_run failed with code %d, error: %s",
			int(ret), ErrorCodes(ret).String())
	}

	return r.getOutputs(wantFloat)
}

// Output is a single output tensor.  When the runtime converts to float or
// the tensor is FP32 or FP16 BufFloat is set, otherwise BufInt holds the
// quantized values.
type Output struct {
	Index uint32
	// BufFloat is the output as float32.  For FP32 outputs this is a slice
	// header pointing to C memory
	BufFloat []float32
	// BufInt is the output as int8, a slice header pointing to C memory
	BufInt []int8
	// Size is the number of bytes of the C buffer
	Size uint32
}

// Outputs holds the output tensors of one inference and the C memory
// backing them
type Outputs struct {
	Output   []Output
	cOutputs []C.rknn_output
	// freed is a flag to indicate if the cOutputs have been released
	freed bool
	// mutex to lock access to freed variable
	sync.Mutex
	// rknn runtime instance
	rt *Runtime
}

// getOutputs wraps C.rknn_outputs_get
func (r *Runtime) getOutputs(wantFloat bool) (*Outputs, error) {

	n := r.ioNum.NumberOutput

	outputs := &Outputs{
		Output:   make([]Output, n),
		cOutputs: make([]C.rknn_output, n),
		rt:       r,
	}

	useWantFloat := C.uint8_t(0)

	if wantFloat {
		useWantFloat = 1
	}

	for idx := range outputs.cOutputs {
		outputs.cOutputs[idx].index = C.uint32_t(idx)
		outputs.cOutputs[idx].want_float = useWantFloat
	}

	ret := C.rknn_outputs_get(r.ctx, C.uint32_t(n),
		(*C.rknn_output)(unsafe.Pointer(&outputs.cOutputs[0])), nil)

	if ret < 0 {
		return nil, fmt.Errorf("C.rknn_outputs_get failed with code %d, error: %s",
			int(ret), ErrorCodes(ret).String())
	}

	for i, cOutput := range outputs.cOutputs {
		out := Output{
			Index: uint32(cOutput.index),
			Size:  uint32(cOutput.size),
		}

		switch {
		case wantFloat:
			out.BufFloat = unsafe.Slice((*float32)(cOutput.buf), cOutput.size/4)

		case r.outputAttrs[i].Type == TensorFloat32:
			out.BufFloat = unsafe.Slice((*float32)(cOutput.buf), cOutput.size/4)

		case r.outputAttrs[i].Type == TensorFloat16:
			f16 := unsafe.Slice((*uint16)(cOutput.buf), cOutput.size/2)
			out.BufFloat = halfToFloat32(f16)

		default:
			out.BufInt = unsafe.Slice((*int8)(cOutput.buf), cOutput.size)
		}

		outputs.Output[i] = out
	}

	return outputs, nil
}

// Free releases the C memory holding the outputs.  Calling Free more than
// once has no effect.
func (o *Outputs) Free() error {
	o.Lock()
	defer o.Unlock()

	if o.freed {
		return nil
	}

	o.freed = true

	ret := C.rknn_outputs_release(o.rt.ctx, C.uint32_t(len(o.cOutputs)),
		(*C.rknn_output)(unsafe.Pointer(&o.cOutputs[0])))

	if ret != C.RKNN_SUCC {
		return fmt.Errorf("C.rknn_outputs_release failed with code %d, error: %s",
			int(ret), ErrorCodes(ret).String())
	}

	return nil
}
