package html_response

import (
	"fmt"
	"net/http"
	"strconv"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	"github.com/Motmedel/response_adapter_go/pkg/utils"
)

const ContentType = "text/html; charset=utf-8"

// Write writes a complete HTML document as a single chunk and ends the connection.
func Write(connection connection.Connection, statusCode int, html string) error {
	if utils.IsNil(connection) {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilConnection)
	}

	header := http.Header{
		"Content-Type":   {ContentType},
		"Content-Length": {strconv.Itoa(len(html))},
	}
	if err := connection.WriteHead(statusCode, header); err != nil {
		return fmt.Errorf("connection write head: %w", err)
	}

	if err := connection.Write([]byte(html)); err != nil {
		return fmt.Errorf("connection write: %w", err)
	}

	if err := connection.End(); err != nil {
		return fmt.Errorf("connection end: %w", err)
	}

	return nil
}
