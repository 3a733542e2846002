package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "claims", c), ANY package that knows the string can
// read or shadow your value. A package-private type prevents collisions.
type contextKey string

const claimsKey contextKey = "claims"

// unauthorizedBody is the rejection written by the guard. It matches the
// shape of every other error body the API produces.
const unauthorizedBody = `{"statusCode":401,"message":"Unauthorized","error":"Unauthorized"}`

// RequireAuth is the guard for protected routes.
//
// It reads "Authorization: Bearer <jwt>", verifies the token, and stores the
// claims in the request context. A missing, malformed, tampered or expired
// token gets a 401 and the request never reaches the handler. The response
// does not say which of those it was.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				reject(w)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				reject(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext retrieves the verified claims placed by RequireAuth.
//
// Returns (nil, false) if the request did not pass through the guard.
//
//	claims, ok := auth.ClaimsFromContext(r.Context())
//	if !ok {
//	    // anonymous
//	}
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// bearerToken extracts the token from the Authorization header.
// The scheme is matched case-insensitively ("bearer" is accepted too).
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="`+Issuer+`"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
