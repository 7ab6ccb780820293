package error_descriptor

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
)

const DefaultName = "Error"

type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// ErrorDescriptor describes a render failure. It is itself an error so that render functions can
// return it directly with the metadata already attached.
type ErrorDescriptor struct {
	Name     string
	Title    string
	Message  string
	Stack    string
	Hint     string
	Id       string
	Frame    string
	Plugin   string
	Location *Location
	Cause    error
}

func (descriptor *ErrorDescriptor) Error() string {
	if descriptor == nil {
		return ""
	}
	return descriptor.Message
}

func (descriptor *ErrorDescriptor) Unwrap() error {
	if descriptor == nil {
		return nil
	}
	return descriptor.Cause
}

func (descriptor *ErrorDescriptor) GetStackTrace() string {
	if descriptor == nil {
		return ""
	}
	return descriptor.Stack
}

type namer interface {
	Name() string
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch name := t.Name(); name {
	case "", "errorString", "wrapError", "wrapErrors", "joinError":
		return DefaultName
	default:
		return name
	}
}

// FromError returns the descriptor found in the chain of err, or builds one from err.
func FromError(err error) *ErrorDescriptor {
	if err == nil {
		return nil
	}

	var descriptor *ErrorDescriptor
	if errors.As(err, &descriptor) && descriptor != nil {
		if descriptor.Name == "" || descriptor.Stack == "" {
			filled := *descriptor
			if filled.Name == "" {
				filled.Name = DefaultName
			}
			if filled.Stack == "" {
				filled.Stack = motmedelErrors.StackTrace(err)
			}
			return &filled
		}
		return descriptor
	}

	name := DefaultName
	var namedErr namer
	if errors.As(err, &namedErr) && namedErr.Name() != "" {
		name = namedErr.Name()
	} else {
		name = typeName(err)
	}

	return &ErrorDescriptor{
		Name:    name,
		Message: err.Error(),
		Stack:   motmedelErrors.StackTrace(err),
		Cause:   errors.Unwrap(err),
	}
}

type PayloadError struct {
	Instance string    `json:"instance"`
	Name     string    `json:"name"`
	Title    string    `json:"title,omitempty"`
	Message  string    `json:"message"`
	Stack    string    `json:"stack"`
	Hint     string    `json:"hint,omitempty"`
	Id       string    `json:"id,omitempty"`
	Frame    string    `json:"frame,omitempty"`
	Plugin   string    `json:"plugin,omitempty"`
	Loc      *Location `json:"loc,omitempty"`
	Cause    string    `json:"cause,omitempty"`
}

type Payload struct {
	Type string        `json:"type"`
	Err  *PayloadError `json:"err"`
}

func (payload *Payload) Bytes() ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("json marshal: %w", err), payload)
	}
	return data, nil
}

// MakePayload builds the overlay payload pushed over the live-reload channel. Each payload gets a
// fresh instance identifier so it can be correlated with the server-side log line.
func MakePayload(descriptor *ErrorDescriptor) *Payload {
	if descriptor == nil {
		return nil
	}

	payloadError := &PayloadError{
		Instance: uuid.New().String(),
		Name:     descriptor.Name,
		Title:    descriptor.Title,
		Message:  descriptor.Message,
		Stack:    descriptor.Stack,
		Hint:     descriptor.Hint,
		Id:       descriptor.Id,
		Frame:    descriptor.Frame,
		Plugin:   descriptor.Plugin,
		Loc:      descriptor.Location,
	}
	if payloadError.Name == "" {
		payloadError.Name = DefaultName
	}
	if payloadError.Id == "" && descriptor.Location != nil {
		payloadError.Id = descriptor.Location.File
	}
	if cause := descriptor.Cause; cause != nil {
		payloadError.Cause = cause.Error()
	}

	return &Payload{Type: "error", Err: payloadError}
}
