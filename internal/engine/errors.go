package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a rank call produced no result.
type ErrorKind string

const (
	KindMissingInput ErrorKind = "missing_input"
	KindUpstream     ErrorKind = "upstream"
)

var (
	ErrMissingCredentials = errors.New("api key is required")
	ErrMissingKeyword     = errors.New("keyword is required")
	ErrUpstream           = errors.New("video platform request failed")
)

// RankError is the only error type returned by the rank pipeline.
type RankError struct {
	Kind ErrorKind
	Err  error
}

func (e *RankError) Error() string {
	return fmt.Sprintf("rank %s: %v", e.Kind, e.Err)
}

func (e *RankError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUpstream) match any upstream failure.
func (e *RankError) Is(target error) bool {
	return e.Kind == KindUpstream && target == ErrUpstream
}

// MissingInput wraps a validation failure.
func MissingInput(err error) *RankError {
	return &RankError{Kind: KindMissingInput, Err: err}
}

// Upstream wraps a transport, auth or quota failure from the platform.
func Upstream(err error) *RankError {
	return &RankError{Kind: KindUpstream, Err: err}
}

// ErrorKindOf returns the kind of a rank error, or "" for anything else.
func ErrorKindOf(err error) ErrorKind {
	var re *RankError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
