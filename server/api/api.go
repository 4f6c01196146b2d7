// Package api provides the HTTP API endpoints for the weir server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/weir/server/result"
	"github.com/dekarrin/weir/server/svc"
)

// PathPrefix is the prefix all routes in the API are mounted under.
const PathPrefix = "/api/v1"

// API holds the parameters endpoints need to run.
type API struct {
	// Backend is the service layer the handlers call to perform the
	// requested actions.
	Backend svc.Service

	// UnauthDelay is how long a 401/403/500 response waits before being
	// written, to deprioritize naive clients hammering bad credentials.
	UnauthDelay time.Duration
}

// Routes mounts every endpoint this package provides onto r.
func (api API) Routes(r chi.Router) {
	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/grammars", api.HTTPCreateGrammar())
		r.Post("/sessions", api.HTTPCreateSession())
		r.Post("/sessions/{id}/tokens", api.HTTPFeedToken())
		r.Post("/sessions/{id}/finish", api.HTTPFinishSession())
	})
}

type EndpointFunc func(req *http.Request) result.Result

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		r.Log(req)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(http.StatusInternalServerError, "An internal server error occurred", fmt.Sprintf("panic: %v", panicErr))
		r.WriteResponse(w)
		r.Log(req)
	}
}

func requireIDParam(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return uuid.UUID{}, fmt.Errorf("no id in path")
	}
	return uuid.Parse(idStr)
}

// parseJSON requires application/json and decodes req's body into v, which
// must be a pointer.
func parseJSON(req *http.Request, v interface{}) error {
	if !strings.EqualFold(req.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}
