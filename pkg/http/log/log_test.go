package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	motmedelHttpContext "github.com/Motmedel/response_adapter_go/pkg/http/context"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
)

func TestHttpContextExtractor(t *testing.T) {
	testCases := []struct {
		name        string
		requestInfo *motmedelHttpContext.RequestInfo
		expected    map[string]any
	}{
		{
			name:        "request",
			requestInfo: &motmedelHttpContext.RequestInfo{Id: "abc", Method: "GET", Path: "/fail"},
			expected: map[string]any{
				"http": map[string]any{"request": map[string]any{"id": "abc", "method": "GET"}},
				"url":  map[string]any{"path": "/fail"},
			},
		},
		{
			name:        "path only",
			requestInfo: &motmedelHttpContext.RequestInfo{Path: "/"},
			expected:    map[string]any{"url": map[string]any{"path": "/"}},
		},
		{
			name:     "no request",
			expected: map[string]any{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buffer bytes.Buffer
			logger := motmedelLog.New(
				slog.NewJSONHandler(&buffer, &slog.HandlerOptions{
					ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
						if len(groups) == 0 && (attr.Key == slog.TimeKey || attr.Key == slog.LevelKey || attr.Key == slog.MessageKey) {
							return slog.Attr{}
						}
						return attr
					},
				}),
				&HttpContextExtractor{},
			)

			ctx := context.Background()
			if testCase.requestInfo != nil {
				ctx = motmedelHttpContext.WithRequestInfo(ctx, testCase.requestInfo)
			}
			logger.InfoContext(ctx, "message")

			var got map[string]any
			if err := json.Unmarshal(buffer.Bytes(), &got); err != nil {
				t.Fatalf("json unmarshal: %v", err)
			}
			if diff := cmp.Diff(testCase.expected, got); diff != "" {
				t.Errorf("record mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}
