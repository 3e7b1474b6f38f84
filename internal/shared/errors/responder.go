package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a domain error into a problem. ok is false when the mapper
// does not recognise err.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// Responder writes problem documents, resolving errors through its mappers.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

// NewResponder builds a responder. A non-empty baseURI is prepended to relative
// problem types.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// Problem resolves err: a ProblemDetail passes through, then each mapper is tried
// in order, and anything left over becomes a 500.
func (r *Responder) Problem(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	return ErrInternal.WithDetail(err.Error())
}

// Respond writes problem with the problem+json content type. Instance defaults
// to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError resolves err and writes the resulting problem.
func (r *Responder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Problem(err))
}
