// Package apperr описывает ошибки, которые handler-ы показывают пользователю.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalid         Code = "invalid"
	CodeUnauthenticated Code = "unauthenticated"
	CodeForbidden       Code = "forbidden"
	CodePolicy          Code = "policy"
	CodeNotFound        Code = "not_found"
	CodeInternal        Code = "internal"
)

// FieldErrors — сообщения об ошибках по имени поля формы.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f FieldErrors) Empty() bool { return len(f) == 0 }

type Error struct {
	Code    Code
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// Validation возвращает nil, если ошибок по полям нет.
func Validation(fields FieldErrors) error {
	if fields.Empty() {
		return nil
	}
	return &Error{Code: CodeInvalid, Message: "Проверьте правильность заполнения формы", Fields: fields}
}

func FieldError(field, msg string) error {
	return Validation(FieldErrors{field: msg})
}

func Unauthenticated() *Error {
	return New(CodeUnauthenticated, "Требуется вход в систему")
}

func Forbidden() *Error {
	return New(CodeForbidden, "Недостаточно прав")
}

func Policy(msg string) *Error {
	return New(CodePolicy, msg)
}

func NotFound(msg string) *Error {
	return New(CodeNotFound, msg)
}

func Internal(err error, msg string) *Error {
	return Wrap(err, CodeInternal, msg)
}

// CodeOf возвращает код ошибки; для "чужих" ошибок — CodeInternal.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Fields достаёт ошибки по полям из ошибки валидации.
func Fields(err error) FieldErrors {
	var ae *Error
	if errors.As(err, &ae) && ae.Fields != nil {
		return ae.Fields
	}
	return FieldErrors{}
}

// Message — текст для показа пользователю.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Внутренняя ошибка сервера"
}
