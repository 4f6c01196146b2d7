// Package result contains results used to write out weir API responses.
package result

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// OK returns a Result containing an HTTP-200.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, fmtMsg("OK", internalMsg))
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, fmtMsg("created", internalMsg))
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	return Response(http.StatusNoContent, nil, fmtMsg("no content", internalMsg))
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, fmtMsg("bad request", internalMsg))
}

// Unauthorized returns a Result containing an HTTP-401 with a
// WWW-Authenticate header.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, fmtMsg("unauthorized", internalMsg)).
		WithHeader("WWW-Authenticate", `Bearer realm="weir server", charset="utf-8"`)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", fmtMsg("not found", internalMsg))
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusConflict, userMsg, fmtMsg("conflict", internalMsg))
}

// UnprocessableEntity returns a Result containing an HTTP-422, used for a
// syntactically valid request whose content a parser rejects (e.g. a
// malformed grammar file, or a syntax error reported mid-parse).
func UnprocessableEntity(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusUnprocessableEntity, userMsg, fmtMsg("unprocessable", internalMsg))
}

// InternalServerError returns a Result containing an HTTP-500.
func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", fmtMsg("internal server error", internalMsg))
}

func fmtMsg(def string, args []interface{}) string {
	if len(args) == 0 {
		return def
	}
	format, ok := args[0].(string)
	if !ok {
		return def
	}
	return fmt.Sprintf(format, args[1:]...)
}

func Response(status int, respObj interface{}, internalMsg string) Result {
	return Result{IsJSON: true, Status: status, InternalMsg: internalMsg, resp: respObj}
}

func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: internalMsg,
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr writes a plain-text error body, used for the panicTo500 fallback
// when even JSON marshaling cannot be trusted.
func TextErr(status int, userMsg, internalMsg string) Result {
	return Result{IsJSON: false, IsErr: true, Status: status, InternalMsg: internalMsg, resp: userMsg}
}

type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

func (r Result) WithHeader(name, val string) Result {
	r.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return r
}

// PrepareMarshaledResponse sets respJSONBytes to the marshaled response
// body, if required. Calling it more than once is a no-op.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil || !r.IsJSON || r.Status == http.StatusNoContent {
		return nil
	}
	var err error
	r.respJSONBytes, err = json.Marshal(r.resp)
	return err
}

func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}

// Log writes one line describing the result to the standard logger, in the
// level remote-ip method path: HTTP-status msg shape the teacher's
// server/api uses.
func (r Result) Log(req *http.Request) {
	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
