package main

import (
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/cookies"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/error_descriptor"
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
	motmedelIter "github.com/Motmedel/response_adapter_go/pkg/iter"
)

const htmlContentType = "text/html; charset=utf-8"

func page(title string, content string) string {
	return fmt.Sprintf(
		`<!doctype html><html lang="en"><head><meta charset="UTF-8"><title>%s</title></head><body>%s</body></html>`,
		title,
		content,
	)
}

func renderHome(request *http.Request) (*adapterTypesResponse.Response, error) {
	collection := &cookies.Cookies{}
	for _, cookie := range []*http.Cookie{
		{Name: "theme", Value: "dark", Path: "/"},
		{Name: "visits", Value: fmt.Sprint(time.Now().Unix()), Path: "/"},
		{Name: "session", Value: "demo", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode},
	} {
		if err := collection.Set(cookie); err != nil {
			return nil, fmt.Errorf("cookies set: %w", err)
		}
	}

	return &adapterTypesResponse.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {htmlContentType}},
		Body: adapterTypesResponse.Text(
			page(
				"Home",
				`<h1>Response adapter</h1><ul>`+
					`<li><a href="/stream">stream</a></li>`+
					`<li><a href="/readable">readable</a></li>`+
					`<li><a href="/fail">fail</a></li>`+
					`<li><a href="/fail-late">fail late</a></li>`+
					`<li><a href="/nowhere">nowhere</a></li></ul>`,
			),
		),
		Cookies: collection,
	}, nil
}

func countdown(fail bool) iter.Seq2[[]byte, error] {
	var items []string
	for i := 5; i > 0; i-- {
		items = append(items, fmt.Sprintf("<li>%d</li>", i))
	}

	tail := motmedelIter.Chunks("</ol></body></html>")
	if fail {
		tail = motmedelIter.Fail(
			&error_descriptor.ErrorDescriptor{
				Name:    "RenderError",
				Message: "The component failed after the page started streaming.",
				Hint:    "Errors raised after the first chunk are reported over the live-reload channel.",
			},
		)
	}

	return motmedelIter.Concat2(
		motmedelIter.Chunks(`<!doctype html><html lang="en"><head><title>Stream</title></head><body><ol>`),
		motmedelIter.Paced(motmedelIter.Chunks(items...), 200*time.Millisecond),
		tail,
	)
}

func renderDemo(request *http.Request) (*adapterTypesResponse.Response, error) {
	switch request.URL.Path {
	case "/":
		return renderHome(request)
	case "/stream":
		return &adapterTypesResponse.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {htmlContentType}},
			Body:       adapterTypesResponse.SequenceBody(countdown(false)),
		}, nil
	case "/readable":
		return &adapterTypesResponse.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {htmlContentType}},
			Body: &adapterTypesResponse.ReadableBody{
				Source: adapterTypesResponse.NewIoSource(
					io.NopCloser(strings.NewReader(page("Readable", "<p>Read from a pull source.</p>"))),
					16,
				),
			},
		}, nil
	case "/fail":
		return nil, motmedelErrors.NewWithTrace(
			&error_descriptor.ErrorDescriptor{
				Name:     "TypeError",
				Message:  "Cannot read properties of undefined (reading 'title')",
				Location: &error_descriptor.Location{File: "src/pages/fail.astro", Line: 4, Column: 12},
			},
		)
	case "/fail-late":
		return &adapterTypesResponse.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {htmlContentType}},
			Body:       adapterTypesResponse.SequenceBody(countdown(true)),
		}, nil
	default:
		return nil, adapterErrors.ErrNotFound
	}
}
