package context

import (
	"context"

	motmedelContext "github.com/Motmedel/response_adapter_go/pkg/context"
)

// RequestInfo identifies the request a log record was emitted for.
type RequestInfo struct {
	Id     string
	Method string
	Path   string
}

type requestInfoContextType struct{}

var RequestInfoContextKey requestInfoContextType

func WithRequestInfo(parent context.Context, requestInfo *RequestInfo) context.Context {
	return context.WithValue(parent, RequestInfoContextKey, requestInfo)
}

func GetRequestInfo(ctx context.Context) (*RequestInfo, bool) {
	requestInfo, err := motmedelContext.GetNonZeroContextValue[*RequestInfo](ctx, RequestInfoContextKey)
	return requestInfo, err == nil
}
