// Package middle contains middleware for use with the weir server. Unlike
// the teacher's server/middle, there is no end-user account store behind
// auth here (SPEC_FULL §3): a request is authenticated if it carries a
// bearer JWT signed with the server's single shared secret, full stop.
package middle

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dekarrin/weir/server/result"
)

var (
	errNoAuthHeader = errors.New("no authorization header present")
	errNotBearer    = errors.New("authorization header not in Bearer format")
)

// AuthKey is a key in the context of a request populated by RequireAuth.
type AuthKey int64

const AuthLoggedIn AuthKey = iota

// Middleware wraps a handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

type mwFunc http.HandlerFunc

func (f mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f(w, req)
}

type authHandler struct {
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *authHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := bearerToken(req)
	if err == nil {
		_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			return ah.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("weir"), jwt.WithLeeway(time.Minute))
	}

	if err != nil {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		r.Log(req)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, true)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth returns Middleware that rejects any request without a valid
// bearer token signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &authHandler{secret: secret, unauthedDelay: unauthDelay, next: next}
	}
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errNoAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", errNotBearer
	}

	return strings.TrimSpace(parts[1]), nil
}

// IssueToken signs a bearer token with secret, valid for the given TTL. The
// weirsrv CLI calls this once at startup to print an operator token since
// there is no login endpoint.
func IssueToken(secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"iss": "weir",
		"exp": time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// DontPanic returns Middleware that converts a panic in the wrapped handler
// into an HTTP-500 instead of letting it crash the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if panicErr := recover(); panicErr != nil {
					r := result.InternalServerError("panic: %v", panicErr)
					r.WriteResponse(w)
					r.Log(req)
				}
			}()
			next.ServeHTTP(w, req)
		})
	}
}
