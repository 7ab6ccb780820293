package log

import (
	"context"
	"log/slog"

	motmedelHttpContext "github.com/Motmedel/response_adapter_go/pkg/http/context"
)

// HttpContextExtractor adds the request found in the context as an "http" group and its path as
// "url.path".
type HttpContextExtractor struct{}

func (httpContextExtractor *HttpContextExtractor) Handle(ctx context.Context, record *slog.Record) error {
	if record == nil {
		return nil
	}

	requestInfo, ok := motmedelHttpContext.GetRequestInfo(ctx)
	if !ok {
		return nil
	}

	var requestAttrs []any
	if requestInfo.Id != "" {
		requestAttrs = append(requestAttrs, slog.String("id", requestInfo.Id))
	}
	if requestInfo.Method != "" {
		requestAttrs = append(requestAttrs, slog.String("method", requestInfo.Method))
	}
	if len(requestAttrs) != 0 {
		record.Add(slog.Group("http", slog.Group("request", requestAttrs...)))
	}

	if requestInfo.Path != "" {
		record.Add(slog.Group("url", slog.String("path", requestInfo.Path)))
	}

	return nil
}
