package comments

import (
	"fmt"
	"strings"

	"github.com/deicod/ermblog-console/internal/domain"
)

// ListInput selects a page of the comments table.
type ListInput struct {
	Status string
	First  int
	After  string
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ParseCommentStatus(i.Status); err != nil {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown comment status"})
	}
	if i.First < 0 || i.First > MaxPageSize {
		errs = append(errs, domain.FieldError{Field: "first", Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ModerateInput holds the parameters for moderating a comment.
type ModerateInput struct {
	ID     string
	Status string
}

// Validate checks all fields and collects all errors.
func (i ModerateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	status, err := domain.ParseCommentStatus(i.Status)
	switch {
	case err != nil:
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown comment status"})
	case status == "":
		errs = append(errs, domain.FieldError{Field: "status", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
