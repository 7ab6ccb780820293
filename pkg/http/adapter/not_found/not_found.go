package not_found

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/html_response"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
)

const (
	Title    = "Not found"
	TabTitle = "404: Not Found"
)

const documentTemplateString = `<!doctype html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>{{.TabTitle}}</title>
</head>
<body>
	<main>
		<h1>{{.StatusCode}}: {{.Title}}</h1>
		<p>Path: <code>{{.Pathname}}</code></p>
	</main>
</body>
</html>
`

var documentTemplate = template.Must(template.New("not_found").Parse(documentTemplateString))

type Document struct {
	StatusCode int
	Title      string
	TabTitle   string
	Pathname   string
}

// reservedCharacters keep their escapes when a path is decoded for display.
const reservedCharacters = ";/?:@&=+$,#"

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// decodePath percent-decodes escapedPath, leaving escapes of reserved characters in place.
func decodePath(escapedPath string) (string, bool) {
	decoded := make([]byte, 0, len(escapedPath))
	for i := 0; i < len(escapedPath); i++ {
		if escapedPath[i] != '%' {
			decoded = append(decoded, escapedPath[i])
			continue
		}

		if i+2 >= len(escapedPath) {
			return "", false
		}
		high, highOk := unhex(escapedPath[i+1])
		low, lowOk := unhex(escapedPath[i+2])
		if !highOk || !lowOk {
			return "", false
		}

		if b := high<<4 | low; b < utf8.RuneSelf && strings.IndexByte(reservedCharacters, b) >= 0 {
			decoded = append(decoded, escapedPath[i:i+3]...)
		} else {
			decoded = append(decoded, b)
		}
		i += 2
	}

	if !utf8.Valid(decoded) {
		return "", false
	}

	return string(decoded), true
}

// DecodePathname resolves rawUrl against origin and returns its path with escapes decoded, except
// those of reserved characters. The raw path is returned when the combination does not parse.
func DecodePathname(origin string, rawUrl string) string {
	rawPath, _, _ := strings.Cut(rawUrl, "?")

	parsedUrl, err := url.Parse(strings.TrimSuffix(origin, "/") + rawUrl)
	if err != nil {
		return rawPath
	}

	pathname, ok := decodePath(parsedUrl.EscapedPath())
	if !ok {
		return rawPath
	}

	return pathname
}

func Render(document *Document) (string, error) {
	var builder strings.Builder
	if err := documentTemplate.Execute(&builder, document); err != nil {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("template execute: %w", err), document)
	}

	return builder.String(), nil
}

// RespondNotFound writes the not-found document for rawUrl.
func RespondNotFound(connection connection.Connection, origin string, rawUrl string) error {
	html, err := Render(
		&Document{
			StatusCode: http.StatusNotFound,
			Title:      Title,
			TabTitle:   TabTitle,
			Pathname:   DecodePathname(origin, rawUrl),
		},
	)
	if err != nil {
		return err
	}

	return html_response.Write(connection, http.StatusNotFound, html)
}
