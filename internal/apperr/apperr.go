// Package apperr defines the error taxonomy of the request pipeline and its
// mapping to HTTP status codes: validation failures are the client's fault
// (400), unreadable PDFs are unprocessable (422), upstream model failures are
// a bad gateway (502), everything else is a 500.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindExtraction
	KindGeneration
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Extraction(msg string, err error) *Error {
	return &Error{Kind: KindExtraction, Msg: msg, Err: err}
}

func Generation(msg string, err error) *Error {
	return &Error{Kind: KindGeneration, Msg: msg, Err: err}
}

// KindOf returns the taxonomy kind of err, or KindInternal for errors from
// outside the pipeline.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err without the wrapped chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Internal server error"
}

// HTTPStatus maps err to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindExtraction:
		return fiber.StatusUnprocessableEntity
	case KindGeneration:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
