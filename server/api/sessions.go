package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/weir"
	"github.com/dekarrin/weir/server/dao"
	"github.com/dekarrin/weir/server/result"
)

type SessionModel struct {
	URI         string `json:"uri"`
	ID          string `json:"id"`
	GrammarName string `json:"grammar_name"`
	Finished    bool   `json:"finished"`
	TokenCount  int    `json:"token_count"`
}

type CreateSessionRequest struct {
	GrammarName string `json:"grammar_name"`
}

type FeedTokenRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

type TreeModel struct {
	Pretty string `json:"pretty"`
}

type FinishResponse struct {
	Trees []TreeModel `json:"trees"`
}

func sessionModel(s dao.Session) SessionModel {
	return SessionModel{
		URI:         PathPrefix + "/sessions/" + s.ID.String(),
		ID:          s.ID.String(),
		GrammarName: s.GrammarName,
		Finished:    s.Finished,
		TokenCount:  len(s.Tokens),
	}
}

// HTTPCreateSession returns a HandlerFunc that starts a new session against
// a named, already-loaded grammar.
//
// POST /api/v1/sessions
func (api API) HTTPCreateSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	var body CreateSessionRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.GrammarName == "" {
		return result.BadRequest("grammar_name: property is empty or missing from request", "empty grammar_name")
	}

	sesh, err := api.Backend.StartSession(req.Context(), body.GrammarName)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("no grammar named '%s'", body.GrammarName)
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(sessionModel(sesh), "session %s started against grammar '%s'", sesh.ID, sesh.GrammarName)
}

// HTTPFeedToken returns a HandlerFunc that feeds one lexed token to an
// in-progress session.
//
// POST /api/v1/sessions/{id}/tokens
func (api API) HTTPFeedToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epFeedToken)
}

func (api API) epFeedToken(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: not a valid session ID", err.Error())
	}

	var body FeedTokenRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Type == "" {
		return result.BadRequest("type: property is empty or missing from request", "empty token type")
	}

	sesh, err := api.Backend.FeedToken(req.Context(), id, weir.Token{
		Type:    body.Type,
		Content: body.Content,
		Line:    body.Line,
		Column:  body.Column,
	})
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("no session %s", id)
		}
		if line, col, tokType, ok := weir.IsSyntaxError(err); ok {
			return result.UnprocessableEntity(err.Error(), "session %s: syntax error at %d:%d on %s", id, line, col, tokType)
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(sessionModel(sesh), "session %s: fed %s token", id, body.Type)
}

// HTTPFinishSession returns a HandlerFunc that ends a session and returns
// the completed parse forest (or the appropriate error if the input did not
// resolve to exactly one tree).
//
// POST /api/v1/sessions/{id}/finish
func (api API) HTTPFinishSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epFinishSession)
}

func (api API) epFinishSession(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest("id: not a valid session ID", err.Error())
	}

	trees, err := api.Backend.FinishSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("no session %s", id)
		}
		if count, ok := weir.IsAmbiguousParse(err); ok {
			return result.UnprocessableEntity(err.Error(), "session %s: ambiguous parse, %d candidates completed", id, count)
		}
		if weir.IsIncompleteParse(err) {
			return result.UnprocessableEntity(err.Error(), "session %s: incomplete parse", id)
		}
		if line, col, tokType, ok := weir.IsSyntaxError(err); ok {
			return result.UnprocessableEntity(err.Error(), "session %s: syntax error at %d:%d on %s", id, line, col, tokType)
		}
		return result.InternalServerError(err.Error())
	}

	resp := FinishResponse{Trees: make([]TreeModel, len(trees))}
	for i, t := range trees {
		resp.Trees[i] = TreeModel{Pretty: t.Pretty(true)}
	}

	return result.OK(resp, "session %s finished with %d tree(s)", id, len(trees))
}
