package domain

import (
	"errors"
	"fmt"
	"reflect"
)

// Kinds of export failure. Use errors.Is against these to classify an
// error returned by the exporter.
var (
	ErrElementNotFound     = errors.New("element_not_found")
	ErrRendererUnavailable = errors.New("renderer_unavailable")
	ErrRenderFailure       = errors.New("render_failure")
	ErrUnknownFailure      = errors.New("unknown_failure")
)

// UnknownFailureMessage is the message carried by failures that were not
// errors to begin with.
const UnknownFailureMessage = "Failed to generate PDF"

// ExportError tags an underlying error with its failure kind. Error returns
// the underlying message unchanged so callers see what the renderer said.
type ExportError struct {
	Kind error
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == e.Kind }

func NewElementNotFound(id string) error {
	return &ExportError{Kind: ErrElementNotFound, Err: fmt.Errorf("Element with ID %s not found", id)}
}

func NewRendererUnavailable(err error) error {
	if err == nil {
		err = errors.New("renderer did not expose a callable entry point")
	}
	return &ExportError{Kind: ErrRendererUnavailable, Err: err}
}

// NewRenderFailure wraps err unless it is already classified.
func NewRenderFailure(err error) error {
	var ee *ExportError
	if errors.As(err, &ee) {
		return err
	}
	return &ExportError{Kind: ErrRenderFailure, Err: err}
}

// KindOf returns the name of the failure kind, or "" for nil.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrElementNotFound):
		return ErrElementNotFound.Error()
	case errors.Is(err, ErrRendererUnavailable):
		return ErrRendererUnavailable.Error()
	case errors.Is(err, ErrRenderFailure):
		return ErrRenderFailure.Error()
	default:
		return ErrUnknownFailure.Error()
	}
}

// NormalizeFailure turns whatever a dependency failed with into a
// well-formed error. Non-error values, including recovered panic values and
// typed nil errors, become an unknown failure with a generic message.
func NormalizeFailure(v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case *ExportError:
		if t == nil {
			return unknownFailure(nil)
		}
		return t
	case error:
		if isNilError(t) {
			return unknownFailure(nil)
		}
		return t
	default:
		return unknownFailure(v)
	}
}

// UnknownFailureError keeps the original value for logging.
type UnknownFailureError struct {
	Value any
}

func (e *UnknownFailureError) Error() string { return UnknownFailureMessage }

func (e *UnknownFailureError) Is(target error) bool { return target == ErrUnknownFailure }

func unknownFailure(v any) error { return &UnknownFailureError{Value: v} }

func isNilError(err error) bool {
	rv := reflect.ValueOf(err)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
