package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of every error response.
const ContentTypeProblemJSON = "application/problem+json"

// internalDetail is all a client learns about an unmapped failure. Writes run in a unit of work,
// so nothing was committed.
const internalDetail = "the request failed and was rolled back; it is safe to retry"

// ErrorMapper turns an application error into a problem, reporting false when it does not apply.
type ErrorMapper func(err error) (ProblemDetail, bool)

// MatchIs maps any error matching one of targets to problem, with the error text as detail.
func MatchIs(problem ProblemDetail, targets ...error) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, target := range targets {
			if errors.Is(err, target) {
				return problem.WithDetail(err.Error()), true
			}
		}
		return ProblemDetail{}, false
	}
}

// MatchAs maps errors whose chain holds a T through build.
func MatchAs[T error](build func(T) ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		var target T
		if errors.As(err, &target) {
			return build(target), true
		}
		return ProblemDetail{}, false
	}
}

// Chain tries mappers in order.
func Chain(mappers ...ErrorMapper) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, mapper := range mappers {
			if problem, ok := mapper(err); ok {
				return problem, true
			}
		}
		return ProblemDetail{}, false
	}
}

// Responder writes problem responses, resolving relative types against BaseURI.
type Responder struct {
	BaseURI string
	mapper  ErrorMapper
}

// NewChainedResponder builds a responder that consults mappers in order before falling back to
// a 500 problem.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: strings.TrimSuffix(baseURI, "/"), mapper: Chain(mappers...)}
}

// Respond sends problem, defaulting Instance to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err and responds. A ProblemDetail error passes through unchanged; anything
// unmapped is attached to the gin context for the logger and answered with a generic 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	if problem, ok := r.mapper(err); ok {
		r.Respond(c, problem)
		return
	}
	_ = c.Error(err)
	r.Respond(c, ErrInternal.WithDetail(internalDetail))
}
