package header_projector

import (
	"net/http"
	"slices"
	"strings"
)

const setCookieHeaderName = "Set-Cookie"

// Project merges the abstract header into the transport header and returns it. Values of repeated
// headers are comma-joined, except for Set-Cookie which always stays a sequence. A non-empty cookie
// collection replaces any Set-Cookie entry.
func Project(transportHeader http.Header, abstractHeader http.Header, cookies []string) http.Header {
	if transportHeader == nil {
		transportHeader = make(http.Header)
	}

	for name, values := range abstractHeader {
		if len(values) == 0 {
			continue
		}

		canonicalHeaderName := http.CanonicalHeaderKey(name)
		if canonicalHeaderName == setCookieHeaderName {
			transportHeader[canonicalHeaderName] = slices.Clone(values)
			continue
		}

		transportHeader[canonicalHeaderName] = []string{strings.Join(values, ", ")}
	}

	if len(cookies) != 0 {
		transportHeader[setCookieHeaderName] = slices.Clone(cookies)
	}

	return transportHeader
}
