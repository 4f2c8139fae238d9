package config

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch matches every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath is returned for an empty dotted path or one that runs
	// through a non-table value.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrUnsupportedFormat is returned for a settings file that is neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError reports a settings file with invalid syntax. Line and Column
// are zero when the decoder does not report a position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
		if e.Column > 0 {
			where = fmt.Sprintf("%s:%d", where, e.Column)
		}
	}
	return fmt.Sprintf("parsing %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeError reports a setting whose value has the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: want %s, have %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ValidationErrorCode classifies a ValidationError.
type ValidationErrorCode uint8

const (
	ErrCodeUnknownSetting ValidationErrorCode = iota
	ErrCodeOutOfRange
	ErrCodeInvalidEnum
	ErrCodePatternMismatch
)

var validationCodeNames = [...]string{
	ErrCodeUnknownSetting:  "unknown_setting",
	ErrCodeOutOfRange:      "out_of_range",
	ErrCodeInvalidEnum:     "invalid_enum",
	ErrCodePatternMismatch: "pattern_mismatch",
}

func (c ValidationErrorCode) String() string {
	if int(c) < len(validationCodeNames) {
		return validationCodeNames[c]
	}
	return fmt.Sprintf("ValidationErrorCode(%d)", c)
}

// ValidationError reports a setting that is well typed but not allowed.
type ValidationError struct {
	Path    string
	Message string
	Value   any
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}
