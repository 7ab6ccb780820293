package cookie_extractor

import (
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
)

// Extract returns the Set-Cookie values accumulated on the response during rendering. Set-Cookie
// entries already present in the response header are not included.
func Extract(response *adapterTypesResponse.Response) []string {
	if response == nil {
		return nil
	}
	return response.Cookies.Values()
}
