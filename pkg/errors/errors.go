package errors

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var (
	ErrConversionNotOk  = errors.New("conversion not ok")
	ErrContextZeroValue = errors.New("context zero value")
)

type StackTraceErrorI interface {
	Error() string
	GetStackTrace() string
}

type InputErrorI interface {
	Error() string
	GetInput() any
}

type IdErrorI interface {
	Error() string
	GetId() string
}

// Error decorates a wrapped error with the input that caused it, an optional identifier and the
// stack trace at the point of creation.
type Error struct {
	error
	Input      any
	Id         string
	StackTrace string
}

func (err *Error) GetInput() any {
	return err.Input
}

func (err *Error) GetId() string {
	return err.Id
}

func (err *Error) GetStackTrace() string {
	return err.StackTrace
}

func (err *Error) Unwrap() error {
	return err.error
}

func CollectWrappedErrors(err error) []error {
	var results []error

	queue := []error{err}

	for len(queue) > 0 {
		poppedErr := queue[0]
		queue = queue[1:]

		if poppedErr == nil {
			continue
		}

		if poppedErr != err {
			results = append(results, poppedErr)
		}

		switch typedErr := poppedErr.(type) {
		case interface{ Unwrap() error }:
			if unwrappedErr := typedErr.Unwrap(); unwrappedErr != nil {
				queue = append(queue, unwrappedErr)
			}
		case interface{ Unwrap() []error }:
			for _, unwrappedErr := range typedErr.Unwrap() {
				if unwrappedErr != nil {
					queue = append(queue, unwrappedErr)
				}
			}
		}
	}

	return results
}

func removeFunctionFromStackTrace(stackTrace, funcName string) string {
	lines := strings.Split(stackTrace, "\n")
	filtered := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], funcName+"(") {
			// Skip the file/line line as well.
			i++
		} else {
			filtered = append(filtered, lines[i])
		}
	}
	return strings.Join(filtered, "\n")
}

func getFunctionName(f any) string {
	return runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
}

func CaptureStackTrace() string {
	buf := make([]byte, 64<<10)
	return strings.TrimSpace(
		removeFunctionFromStackTrace(string(buf[:runtime.Stack(buf, false)]), getFunctionName(CaptureStackTrace)),
	)
}

// StackTrace returns the first stack trace found in the error chain of err.
func StackTrace(err error) string {
	if err == nil {
		return ""
	}

	for _, candidate := range append([]error{err}, CollectWrappedErrors(err)...) {
		if stackTraceError, ok := candidate.(StackTraceErrorI); ok {
			if stackTrace := stackTraceError.GetStackTrace(); stackTrace != "" {
				return stackTrace
			}
		}
	}

	return ""
}

func New(e any, input ...any) *Error {
	var err error

	switch typedE := e.(type) {
	case error:
		err = typedE
	case string:
		err = errors.New(typedE)
	default:
		err = fmt.Errorf("%v", typedE)
	}

	var errInput any
	switch len(input) {
	case 0:
	case 1:
		errInput = input[0]
	default:
		errInput = input
	}

	return &Error{error: err, Input: errInput}
}

func NewWithTrace(e any, input ...any) *Error {
	err := New(e, input...)
	err.StackTrace = removeFunctionFromStackTrace(CaptureStackTrace(), getFunctionName(NewWithTrace))

	return err
}
