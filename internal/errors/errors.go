// Package errors gives chatmodal failures a category and the operation
// they happened in. The widget uses the category to choose between
// degrading quietly, retrying and telling the user.
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op names the failing operation, conventionally "package.Function".
type Op string

// Kind is the failure category.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindHTTP
	KindDecode
	KindConfig
	KindCanceled
)

var kindNames = [...]string{
	KindUnknown:  "unknown error",
	KindNotFound: "not found",
	KindInvalid:  "invalid",
	KindIO:       "I/O error",
	KindNetwork:  "network error",
	KindHTTP:     "unexpected status",
	KindDecode:   "malformed response",
	KindConfig:   "configuration error",
	KindCanceled: "canceled",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Error is a failure tagged with where it happened and what kind it is.
// Context is a human description of the failed action.
type Error struct {
	Op      Op
	Kind    Kind
	Err     error
	Context string
}

// Error renders "op: context: cause", leaving out empty parts.
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, string(e.Op))
	}
	if e.Context != "" {
		parts = append(parts, e.Context)
	}
	return strings.Join(append(parts, e.Err.Error()), ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from args in any order: an Op, a Kind, a string for
// Context and an error for the cause. A lone string becomes the cause.
func E(args ...any) error {
	e := new(Error)
	for _, arg := range args {
		switch v := arg.(type) {
		case Op:
			e.Op = v
		case Kind:
			e.Kind = v
		case string:
			e.Context = v
		case error:
			e.Err = v
		}
	}
	if e.Err == nil {
		e.Err, e.Context = errors.New(e.Context), ""
	}
	return e
}

// Is reports whether the first *Error in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// GetKind returns the kind of the first *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}
	return e.Kind
}

// StatusError reports a non-2xx response from the chat backend.
type StatusError struct {
	Status int
}

func (s *StatusError) Error() string {
	return strconv.Itoa(s.Status)
}

// HTTPStatus wraps a non-2xx status for op. what is the user-facing
// description of the failed action.
func HTTPStatus(op Op, what string, status int) error {
	return E(op, KindHTTP, what, &StatusError{Status: status})
}

// StatusCode extracts the HTTP status from err, or 0 if err did not come
// from a backend response.
func StatusCode(err error) int {
	var s *StatusError
	if errors.As(err, &s) {
		return s.Status
	}
	return 0
}

// Message returns err without its operation prefix, suitable for showing
// to the user.
func Message(err error) string {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		if e.Context != "" {
			return fmt.Sprintf("%s: %s", e.Context, e.Err)
		}
		return Message(e.Err)
	default:
		return err.Error()
	}
}

// Backend errors
func NetworkFailed(op Op, err error) error {
	return E(op, KindNetwork, err)
}

func DecodeFailed(op Op, err error) error {
	return E(op, KindDecode, "failed to decode response", err)
}

func Canceled(op Op, err error) error {
	return E(op, KindCanceled, err)
}

// Configuration file and option errors.
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, "cannot read "+path, err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, "cannot write "+path, err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Storage errors
func StorageWriteFailed(key string, err error) error {
	return E(Op("storage.Set"), KindIO, fmt.Sprintf("failed to persist %s", key), err)
}
