package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/weir/server/dao"
	"github.com/dekarrin/weir/server/result"
)

type GrammarModel struct {
	URI     string `json:"uri"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

type CreateGrammarRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// HTTPCreateGrammar returns a HandlerFunc that loads and names a grammar.
//
// POST /api/v1/grammars
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	var body CreateGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty grammar name")
	}
	if body.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty grammar source")
	}

	g, err := api.Backend.LoadGrammar(req.Context(), body.Name, []byte(body.Source))
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return result.Conflict("A grammar with that name already exists", "grammar '%s' already exists", body.Name)
		}
		return result.UnprocessableEntity(err.Error(), "grammar '%s' rejected: %s", body.Name, err.Error())
	}

	resp := GrammarModel{
		URI:     PathPrefix + "/grammars/" + g.ID.String(),
		ID:      g.ID.String(),
		Name:    g.Name,
		Created: g.Created.Format(timeFormat),
	}
	return result.Created(resp, "grammar '%s' (%s) loaded", resp.Name, resp.ID)
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
