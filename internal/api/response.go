// Package api is the operation surface used by the CLI. Every operation
// returns a Response so callers never deal with raw errors.
package api

import (
	"github.com/rs/zerolog/log"

	"chanmgr/internal/errs"
)

// Response is the uniform result of a Service operation
type Response struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Kind    errs.Kind `json:"kind,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// OK wraps data in a successful Response
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail converts err into a failed Response carrying its kind
func Fail(err error) Response {
	if err == nil {
		return Response{Success: false, Kind: errs.KindUnknown, Error: "unknown error"}
	}
	kind := errs.KindOf(err)
	log.Debug().Err(err).Str("kind", string(kind)).Msg("operation failed")
	return Response{Success: false, Error: err.Error(), Kind: kind}
}

// From builds a Response from a (data, err) pair
func From(data any, err error) Response {
	if err != nil {
		return Fail(err)
	}
	return OK(data)
}
