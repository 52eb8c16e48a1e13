package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput     = errors.New("input is empty")
	ErrNotInitialized = errors.New("chat is not initialized")
	ErrSessionClosed  = errors.New("chat session was replaced by a newer analysis")
)

// RequestError is a network or model-service failure. Nothing is retried.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError means the model reply did not match the declared schema.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse analysis"
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
