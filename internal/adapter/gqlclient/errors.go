package gqlclient

import (
	"fmt"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/deicod/ermblog-console/internal/domain"
)

// NetworkError is a failed exchange with the API below the GraphQL layer:
// the request could not be sent, the server answered with a non-2xx status
// or the body was not a GraphQL response.
type NetworkError struct {
	Status int
	Body   string
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("network: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("network: status %d: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("network: status %d", e.Status)
	}
}

func (e *NetworkError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if sentinel := statusSentinel(e.Status); sentinel != nil {
		errs = append(errs, sentinel)
	}
	return errs
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status == 0 || status >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	}
	return nil
}

// GraphQLError carries the errors array of a response. It unwraps to the
// domain sentinel matching each error's extensions.code.
type GraphQLError struct {
	Operation string
	Errors    gqlerror.List
}

func (e *GraphQLError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("graphql %s: unknown error", e.Operation)
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("graphql %s: %s", e.Operation, e.Errors[0].Message)
	}
	return fmt.Sprintf("graphql %s: %s (and %d more)", e.Operation, e.Errors[0].Message, len(e.Errors)-1)
}

func (e *GraphQLError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	seen := make(map[error]bool)
	for _, ge := range e.Errors {
		if sentinel := codeSentinel(ge); sentinel != nil && !seen[sentinel] {
			seen[sentinel] = true
			errs = append(errs, sentinel)
		}
	}
	return errs
}

// Code returns the extensions.code of the first error that has one.
func (e *GraphQLError) Code() string {
	for _, ge := range e.Errors {
		if code := errorCode(ge); code != "" {
			return code
		}
	}
	return ""
}

// FieldErrors returns the validation details the API attaches under
// extensions.fields.
func (e *GraphQLError) FieldErrors() []domain.FieldError {
	var out []domain.FieldError
	for _, ge := range e.Errors {
		fields, _ := ge.Extensions["fields"].([]any)
		for _, f := range fields {
			m, ok := f.(map[string]any)
			if !ok {
				continue
			}
			field, _ := m["field"].(string)
			message, _ := m["message"].(string)
			out = append(out, domain.FieldError{Field: field, Message: message})
		}
	}
	return out
}

func errorCode(ge *gqlerror.Error) string {
	if ge == nil || ge.Extensions == nil {
		return ""
	}
	code, _ := ge.Extensions["code"].(string)
	return code
}

func codeSentinel(ge *gqlerror.Error) error {
	switch errorCode(ge) {
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "ALREADY_EXISTS":
		return domain.ErrAlreadyExists
	case "VALIDATION", "BAD_USER_INPUT":
		return domain.ErrValidation
	case "UNAUTHENTICATED":
		return domain.ErrUnauthorized
	case "FORBIDDEN":
		return domain.ErrForbidden
	case "CONFLICT":
		return domain.ErrConflict
	}
	return nil
}
