package fetcher

import (
	"errors"
	"fmt"
)

// NotFoundError reports a required input file that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fetcher: file not found: %s", e.Path)
}

// ParseError reports an input file that exists but is not valid for its
// expected format. The underlying decoder error is preserved in the chain.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fetcher: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error chain contains a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsParseError returns true if the error chain contains a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
