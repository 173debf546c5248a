// Package common contains constants shared by the client and the backend.
package common

import "strings"

const (
	// AuthorizationHeader carries the bearer token on authenticated requests.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader correlates a client request with backend logs.
	RequestIDHeader = "X-Request-ID"

	// TokenType is the token_type the backend returns with every access token.
	TokenType = "bearer"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return "Bearer " + token
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
