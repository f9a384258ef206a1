// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrInvalidRepoFormat is returned when a repository string in the config is not in 'owner/name[@branch]' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name' or 'owner/name@branch'", e.Repo)
}

// StatusError is returned when a remote endpoint answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// SchemaError is returned when a response body does not have the expected shape.
type SchemaError struct {
	Endpoint string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

// ErrEmptyContent is returned when an endpoint succeeds but carries no content.
var ErrEmptyContent = stderrors.New("empty content")

// Kind classifies a fetch failure.
type Kind string

const (
	KindNone      Kind = ""
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindSchema    Kind = "schema"
	KindEmpty     Kind = "empty"
)

// KindOf maps err onto the fetch failure taxonomy. Anything unrecognised counts as a transport failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return KindStatus
	}
	var schemaErr *SchemaError
	if stderrors.As(err, &schemaErr) {
		return KindSchema
	}
	if stderrors.Is(err, ErrEmptyContent) {
		return KindEmpty
	}
	return KindTransport
}
