package cookies

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
)

// Cookies collects the cookies set while rendering a response. Setting a cookie with a name that
// is already present replaces the earlier entry in place, so the first-set order is kept.
type Cookies struct {
	entries []*http.Cookie
}

func (cookies *Cookies) Set(cookie *http.Cookie) error {
	if cookie == nil {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilCookie)
	}
	if cookie.Name == "" {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrEmptyCookieName)
	}
	if err := cookie.Valid(); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("%w: %w", adapterErrors.ErrInvalidCookie, err), cookie.Name)
	}

	index := slices.IndexFunc(cookies.entries, func(entry *http.Cookie) bool {
		return entry.Name == cookie.Name
	})
	if index >= 0 {
		cookies.entries[index] = cookie
	} else {
		cookies.entries = append(cookies.entries, cookie)
	}

	return nil
}

// Delete sets an expired, empty cookie so that the client removes it. Path and domain must match
// those the cookie was set with.
func (cookies *Cookies) Delete(name string, path string, domain string) error {
	return cookies.Set(
		&http.Cookie{
			Name:    name,
			Value:   "",
			Path:    path,
			Domain:  domain,
			Expires: time.Unix(0, 0).UTC(),
			MaxAge:  -1,
		},
	)
}

func (cookies *Cookies) Get(name string) *http.Cookie {
	if cookies == nil {
		return nil
	}

	for _, entry := range cookies.entries {
		if entry.Name == name {
			return entry
		}
	}

	return nil
}

func (cookies *Cookies) Len() int {
	if cookies == nil {
		return 0
	}
	return len(cookies.entries)
}

// Values returns the serialized Set-Cookie header values in order.
func (cookies *Cookies) Values() []string {
	if cookies == nil || len(cookies.entries) == 0 {
		return nil
	}

	values := make([]string, 0, len(cookies.entries))
	for _, entry := range cookies.entries {
		if value := entry.String(); value != "" {
			values = append(values, value)
		}
	}

	return values
}
