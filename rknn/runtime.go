// Package rknn provides a hand landmark Engine running on the Rockchip NPU
// via the RKNN Toolkit2 C API
package rknn

/*
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"os"
	"unsafe"
)

// CoreMask wraps C.rknn_core_mask
type CoreMask int

// rknn_core_mask values used to target which cores on the NPU the model is
// run on.  Auto picks an idle core, the others pin the model to a specific
// core or combination of cores.
const (
	NPUCoreAuto    CoreMask = C.RKNN_NPU_CORE_AUTO
	NPUCore0       CoreMask = C.RKNN_NPU_CORE_0
	NPUCore1       CoreMask = C.RKNN_NPU_CORE_1
	NPUCore2       CoreMask = C.RKNN_NPU_CORE_2
	NPUCore01      CoreMask = C.RKNN_NPU_CORE_0_1
	NPUCore012     CoreMask = C.RKNN_NPU_CORE_0_1_2
	NPUSkipSetCore CoreMask = 9999
)

// ErrorCodes
type ErrorCodes int

// error code values returned by the C API
const (
	Success              ErrorCodes = C.RKNN_SUCC
	ErrFail              ErrorCodes = C.RKNN_ERR_FAIL
	ErrTimeout           ErrorCodes = C.RKNN_ERR_TIMEOUT
	ErrDeviceUnavailable ErrorCodes = C.RKNN_ERR_DEVICE_UNAVAILABLE
	ErrMallocFail        ErrorCodes = C.RKNN_ERR_MALLOC_FAIL
	ErrParamInvalid      ErrorCodes = C.RKNN_ERR_PARAM_INVALID
	ErrModelInvalid      ErrorCodes = C.RKNN_ERR_MODEL_INVALID
	ErrCtxInvalid        ErrorCodes = C.RKNN_ERR_CTX_INVALID
	ErrInputInvalid      ErrorCodes = C.RKNN_ERR_INPUT_INVALID
	ErrOutputInvalid     ErrorCodes = C.RKNN_ERR_OUTPUT_INVALID
	ErrDeviceMismatch    ErrorCodes = C.RKNN_ERR_DEVICE_UNMATCH
	ErrPlatformMismatch  ErrorCodes = C.RKNN_ERR_TARGET_PLATFORM_UNMATCH
)

// String returns a readable description of the error code
func (e ErrorCodes) String() string {
	switch e {
	case Success:
		return "execution successful"
	case ErrFail:
		return "execution failed"
	case ErrTimeout:
		return "execution timed out"
	case ErrDeviceUnavailable:
		return "device is unavailable"
	case ErrMallocFail:
		return "C memory allocation failed"
	case ErrParamInvalid:
		return "parameter is invalid"
	case ErrModelInvalid:
		return "model file is invalid"
	case ErrCtxInvalid:
		return "context is invalid"
	case ErrInputInvalid:
		return "input is invalid"
	case ErrOutputInvalid:
		return "output is invalid"
	case ErrDeviceMismatch:
		return "device mismatch, please update rknn sdk and npu driver/firmware"
	case ErrPlatformMismatch:
		return "the RKNN model target platform is not compatible with the current platform"
	default:
		return fmt.Sprintf("unknown error code %d", e)
	}
}

// Runtime is a loaded hand landmark model on the NPU
type Runtime struct {
	// ctx is the C runtime context
	ctx C.rknn_context
	// ioNum caches the number of model input/output tensors
	ioNum IONumber
	// inputAttrs caches the input tensor attributes of the model
	inputAttrs []TensorAttr
	// outputAttrs caches the output tensor attributes of the model
	outputAttrs []TensorAttr
}

// NewRuntime loads the RKNN compiled model file and pins it to the given NPU
// cores
func NewRuntime(modelFile string, core CoreMask) (*Runtime, error) {

	r := &Runtime{}

	err := r.init(modelFile)

	if err != nil {
		return nil, err
	}

	// setCoreMask is only supported on RK3588 class NPUs
	if core != NPUSkipSetCore {
		err = r.setCoreMask(core)

		if err != nil {
			r.Close()
			return nil, err
		}
	}

	r.ioNum, err = r.QueryModelIONumber()

	if err != nil {
		r.Close()
		return nil, err
	}

	r.inputAttrs, err = r.queryTensors(C.RKNN_QUERY_INPUT_ATTR, r.ioNum.NumberInput)

	if err != nil {
		r.Close()
		return nil, err
	}

	r.outputAttrs, err = r.queryTensors(C.RKNN_QUERY_OUTPUT_ATTR, r.ioNum.NumberOutput)

	if err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// init wraps C.rknn_init
func (r *Runtime) init(modelFile string) error {

	// check file exists in Go, before passing to C
	info, err := os.Stat(modelFile)

	if err != nil {
		return fmt.Errorf("model file does not exist at %s, error: %w",
			modelFile, err)
	}

	if info.IsDir() {
		return fmt.Errorf("model file is a directory")
	}

	cModelFile := C.CString(modelFile)
	defer C.free(unsafe.Pointer(cModelFile))

	ret := C.rknn_init(&r.ctx, unsafe.Pointer(cModelFile), 0, 0, nil)

	if ret != C.RKNN_SUCC {
		return fmt.Errorf("C.rknn_init call failed with code %d, error: %s",
			ret, ErrorCodes(ret).String())
	}

	return nil
}

// setCoreMask wraps C.rknn_set_core_mask
func (r *Runtime) setCoreMask(mask CoreMask) error {

	ret := C.rknn_set_core_mask(r.ctx, C.rknn_core_mask(mask))

	if ret != C.RKNN_SUCC {
		return fmt.Errorf("C.rknn_set_core_mask failed with code %d, error: %s",
			ret, ErrorCodes(ret).String())
	}

	return nil
}

// Close wraps C.rknn_destroy which unloads the model and releases all C
// resources
func (r *Runtime) Close() error {

	ret := C.rknn_destroy(r.ctx)

	if ret != C.RKNN_SUCC {
		return fmt.Errorf("C.rknn_destroy failed with code %d, error: %s",
			ret, ErrorCodes(ret).String())
	}

	return nil
}

// InputAttrs returns the loaded model's input tensor attributes
func (r *Runtime) InputAttrs() []TensorAttr {
	return r.inputAttrs
}

// OutputAttrs returns the loaded model's output tensor attributes
func (r *Runtime) OutputAttrs() []TensorAttr {
	return r.outputAttrs
}
