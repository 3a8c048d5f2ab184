package posts

import (
	"fmt"
	"strings"

	"github.com/deicod/ermblog-console/internal/domain"
)

// ListInput selects a page of the posts table.
type ListInput struct {
	Status string // "" or "all" for the unfiltered view
	First  int    // 0 = DefaultPageSize
	After  string // empty loads the first page
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ParsePostStatus(i.Status); err != nil {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown post status"})
	}
	if i.First < 0 || i.First > MaxPageSize {
		errs = append(errs, domain.FieldError{Field: "first", Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SetStatusInput holds the parameters for changing a post's status.
type SetStatusInput struct {
	ID     string
	Status string
}

// Validate checks all fields and collects all errors.
func (i SetStatusInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	status, err := domain.ParsePostStatus(i.Status)
	switch {
	case err != nil:
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown post status"})
	case status == "":
		errs = append(errs, domain.FieldError{Field: "status", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// GetInput lists posts to look up by id.
type GetInput struct {
	IDs []string
}

// Validate checks all fields and collects all errors.
func (i GetInput) Validate() error {
	var errs []domain.FieldError

	if len(i.IDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "ids", Message: "at least one id is required"})
	}
	if len(i.IDs) > MaxLookup {
		errs = append(errs, domain.FieldError{Field: "ids", Message: fmt.Sprintf("max %d ids", MaxLookup)})
	}
	for _, id := range i.IDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, domain.FieldError{Field: "ids", Message: "ids must not be empty"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
