// Package auth carries the caller's bearer token from the Authorization
// header to downstream collaborators. The token is not verified here;
// whoever receives it (the deletion backend) decides what it is worth.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// BearerTokenKey is the context key under which the caller's token is stored.
const BearerTokenKey ContextKey = "bearerToken"

const bearerPrefix = "Bearer "

// TokenFromHeader strips the "Bearer " prefix. A header without the prefix is returned as is.
func TokenFromHeader(header string) string {
	return strings.TrimPrefix(header, bearerPrefix)
}

// TokenFromContext returns the token stored by ExtractBearerToken, or an empty string.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(BearerTokenKey).(string)
	return token
}

// ContextWithToken returns a copy of ctx that carries token.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, BearerTokenKey, token)
}

// ExtractBearerToken is an HTTP middleware that copies the Authorization
// header's token into the request context.
func ExtractBearerToken(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		token := TokenFromHeader(request.Header.Get("Authorization"))
		if token == "" {
			h.ServeHTTP(response, request)

			return
		}

		h.ServeHTTP(response, request.WithContext(ContextWithToken(request.Context(), token)))
	}

	return http.HandlerFunc(middleware)
}
