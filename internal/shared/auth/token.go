package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when absent.
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// ExtractToken looks at the Authorization header first and falls back to the
// queryParam (default "token"). Browsers cannot set headers on websocket
// upgrades, hence the query fallback.
func ExtractToken(r *http.Request, queryParam string) string {
	if token := ExtractBearerToken(r); token != "" {
		return token
	}
	if r == nil || r.URL == nil {
		return ""
	}
	if queryParam == "" {
		queryParam = "token"
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}
