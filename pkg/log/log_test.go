package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/google/go-cmp/cmp"
)

func TestErrorContextExtractor(t *testing.T) {
	var buffer bytes.Buffer
	logger := New(slog.NewJSONHandler(&buffer, nil))

	cause := motmedelErrors.New(errors.New("inner failure"), "some input")
	LogError(context.Background(), "Something failed.", fmt.Errorf("outer: %w", cause), logger)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}

	if record["msg"] != "Something failed." {
		t.Errorf("got message %v", record["msg"])
	}

	errorGroup, ok := record["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected an error group, got %v", record["error"])
	}

	expected := map[string]any{
		"message": "outer: inner failure",
		"cause": map[string]any{
			"input":   map[string]any{"value": "some input", "type": "string"},
			"message": "inner failure",
			"cause":   map[string]any{"message": "inner failure"},
		},
	}
	if diff := cmp.Diff(expected, errorGroup); diff != "" {
		t.Errorf("error group mismatch (-expected +got):\n%s", diff)
	}
}

func TestContextHandlerWithAttrs(t *testing.T) {
	var buffer bytes.Buffer
	logger := New(slog.NewJSONHandler(&buffer, nil)).With("component", "test")

	LogWarning(context.Background(), "A warning.", errors.New("warned"), logger)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if record["component"] != "test" {
		t.Errorf("expected the attribute to survive, got %v", record)
	}
	if _, ok := record["error"]; !ok {
		t.Errorf("expected the extractor to survive WithAttrs, got %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
		err      bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: " WARN ", expected: slog.LevelWarn},
		{input: "bogus", expected: slog.LevelInfo, err: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			level, err := ParseLevel(testCase.input)
			if (err != nil) != testCase.err {
				t.Fatalf("got error %v, expected error: %v", err, testCase.err)
			}
			if level != testCase.expected {
				t.Errorf("got level %v, expected %v", level, testCase.expected)
			}
		})
	}
}
