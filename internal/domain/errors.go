package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeValidation       ErrCode = "validation_error"
	CodeNotFound         ErrCode = "not_found"
	CodeRemote           ErrCode = "remote_error"
	CodeMethodNotAllowed ErrCode = "method_not_allowed"
	CodeInternal         ErrCode = "internal_error"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string

	// Err is the underlying cause, kept for logs and errors.Is.
	Err error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Meta) > 0 {
		msg = fmt.Sprintf("%s (%v)", msg, e.Meta)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Err }

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}

func ErrNotFound(msg string) error { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrMethodNotAllowed(msg string) error {
	return &AppError{Code: CodeMethodNotAllowed, Message: msg}
}

// ErrRemote wraps a transport, storage or image-host failure.
func ErrRemote(msg string, cause error) error {
	return &AppError{Code: CodeRemote, Message: msg, Err: cause}
}

// CodeOf returns the AppError code carried by err, or CodeInternal.
func CodeOf(err error) ErrCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

func IsNotFound(err error) bool   { return err != nil && CodeOf(err) == CodeNotFound }
func IsRemote(err error) bool     { return err != nil && CodeOf(err) == CodeRemote }
func IsValidation(err error) bool { return err != nil && CodeOf(err) == CodeValidation }
