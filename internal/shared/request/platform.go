package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
	ClientTypeAPI    = "api"
)

// ResolveClientType trusts the explicit X-Client-Type header first and falls
// back to sniffing the user agent. Browsers get cookie-based tokens, everyone
// else gets the response body only.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	case ClientTypeAPI:
		return ClientTypeAPI
	}
	if strings.Contains(userAgent, "Mozilla") {
		return ClientTypeWeb
	}
	return ClientTypeAPI
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
