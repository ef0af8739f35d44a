// Package errors holds the error values shared by the registry backends,
// the download service and the CLI.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnsupportedRegistry = errors.New("unsupported registry type")
	ErrNoVersion           = errors.New("no version available")
)

// ValidationError is returned when an identifier or config value is unusable.
// It unwraps to ErrInvalidArgument.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FileError records the filesystem operation and path that failed.
type FileError struct {
	Path    string
	Op      string
	Wrapped error
}

func (e *FileError) Error() string {
	if e.Wrapped == nil {
		return e.Op + " " + e.Path
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Wrapped)
}

func (e *FileError) Unwrap() error {
	return e.Wrapped
}

func NewFileError(path, op string, wrapped error) error {
	return &FileError{Path: path, Op: op, Wrapped: wrapped}
}

// PackageError ties a failure to the package and version it happened on.
type PackageError struct {
	Op      string
	Package string
	Version string
	Wrapped error
}

func (e *PackageError) Error() string {
	pkg := e.Package
	if e.Version != "" {
		pkg += "@" + e.Version
	}
	if e.Wrapped == nil {
		return e.Op + " " + pkg
	}
	return fmt.Sprintf("%s %s: %v", e.Op, pkg, e.Wrapped)
}

func (e *PackageError) Unwrap() error {
	return e.Wrapped
}

func NewPackageError(op, pkg, version string, wrapped error) error {
	return &PackageError{Op: op, Package: pkg, Version: version, Wrapped: wrapped}
}

// Is and As forward to the standard library so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
