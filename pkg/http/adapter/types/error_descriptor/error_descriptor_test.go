package error_descriptor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
)

type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string { return e.msg }

type namedError struct{}

func (namedError) Error() string { return "named" }
func (namedError) Name() string  { return "CompilerError" }

func TestFromError(t *testing.T) {
	descriptor := &ErrorDescriptor{Name: "RenderError", Message: "boom", Stack: "stack"}

	testCases := []struct {
		name     string
		err      error
		expected *ErrorDescriptor
	}{
		{name: "nil", err: nil, expected: nil},
		{
			name:     "plain",
			err:      errors.New("plain failure"),
			expected: &ErrorDescriptor{Name: DefaultName, Message: "plain failure"},
		},
		{
			name:     "typed",
			err:      &SyntaxError{msg: "unexpected token"},
			expected: &ErrorDescriptor{Name: "SyntaxError", Message: "unexpected token"},
		},
		{
			name:     "named",
			err:      fmt.Errorf("wrapped: %w", namedError{}),
			expected: &ErrorDescriptor{Name: "CompilerError", Message: "wrapped: named", Cause: namedError{}},
		},
		{
			name:     "descriptor in chain",
			err:      fmt.Errorf("render: %w", descriptor),
			expected: descriptor,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := FromError(testCase.err)
			if diff := cmp.Diff(testCase.expected, got, cmpopts.IgnoreFields(ErrorDescriptor{}, "Cause")); diff != "" {
				t.Errorf("descriptor mismatch (-expected +got):\n%s", diff)
			}

			if testCase.expected == nil || got == nil {
				return
			}
			if expectedCause := testCase.expected.Cause; expectedCause == nil {
				if got.Cause != nil {
					t.Errorf("got cause %v, expected none", got.Cause)
				}
			} else if !errors.Is(got.Cause, expectedCause) {
				t.Errorf("got cause %v, expected %v", got.Cause, expectedCause)
			}
		})
	}
}

func TestFromErrorNilDescriptorInChain(t *testing.T) {
	var nilDescriptor *ErrorDescriptor

	testCases := []struct {
		name         string
		err          error
		expectedName string
	}{
		{name: "direct", err: nilDescriptor, expectedName: "ErrorDescriptor"},
		{name: "wrapped", err: motmedelErrors.New(error(nilDescriptor)), expectedName: DefaultName},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := FromError(testCase.err)
			if got == nil {
				t.Fatal("expected a descriptor")
			}
			if got.Name != testCase.expectedName {
				t.Errorf("got name %q, expected %q", got.Name, testCase.expectedName)
			}
			if got.Message != "" || got.Stack != "" {
				t.Errorf("unexpected descriptor: %+v", got)
			}
		})
	}
}

func TestErrorDescriptorNilReceiver(t *testing.T) {
	var descriptor *ErrorDescriptor

	if got := descriptor.Error(); got != "" {
		t.Errorf("got message %q, expected none", got)
	}
	if got := descriptor.Unwrap(); got != nil {
		t.Errorf("got cause %v, expected none", got)
	}
	if got := descriptor.GetStackTrace(); got != "" {
		t.Errorf("got stack trace %q, expected none", got)
	}
}

func TestFromErrorStackTrace(t *testing.T) {
	descriptor := FromError(motmedelErrors.NewWithTrace(errors.New("traced")))
	if descriptor.Stack == "" {
		t.Errorf("expected the stack trace to be carried over")
	}
	if descriptor.Name != DefaultName {
		t.Errorf("got name %q, expected %q", descriptor.Name, DefaultName)
	}
}

func TestMakePayload(t *testing.T) {
	if MakePayload(nil) != nil {
		t.Fatal("expected nil payload for nil descriptor")
	}

	payload := MakePayload(
		&ErrorDescriptor{
			Message:  "boom",
			Stack:    "at render",
			Location: &Location{File: "/src/pages/index.astro", Line: 3, Column: 7},
			Cause:    errors.New("root cause"),
		},
	)

	data, err := payload.Bytes()
	if err != nil {
		t.Fatalf("payload bytes: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}

	payloadErr, ok := decoded["err"].(map[string]any)
	if !ok {
		t.Fatalf("expected an err object, got %v", decoded)
	}

	if _, err := uuid.Parse(payloadErr["instance"].(string)); err != nil {
		t.Errorf("expected a uuid instance: %v", err)
	}
	delete(payloadErr, "instance")

	expected := map[string]any{
		"type": "error",
		"err": map[string]any{
			"name":    DefaultName,
			"message": "boom",
			"stack":   "at render",
			"id":      "/src/pages/index.astro",
			"loc":     map[string]any{"file": "/src/pages/index.astro", "line": float64(3), "column": float64(7)},
			"cause":   "root cause",
		},
	}
	if diff := cmp.Diff(expected, decoded); diff != "" {
		t.Errorf("payload mismatch (-expected +got):\n%s", diff)
	}
}
