// Package model defines the request payloads accepted by the zone and
// space resources.
//
// Rows coming back from the Query Gateway are not modelled: they are
// passed through to the client in whatever shape storage returns.
package model

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ResourceID is the numeric id path segment shared by the item routes.
type ResourceID struct {
	ID string `param:"id" json:"-" form:"-" validate:"required,number"`
}

func (r *ResourceID) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(r.ID, 10, 64); err != nil {
		return fmt.Errorf("id %q is out of range", r.ID)
	}
	return nil
}

// Int64 returns the parsed id. Only meaningful after Validate succeeded.
func (r *ResourceID) Int64() int64 {
	id, _ := strconv.ParseInt(r.ID, 10, 64)
	return id
}

// ListRequest carries the optional substring filter for list operations.
// An absent search is the empty string, which matches every row.
type ListRequest struct {
	Search string `query:"search"`
}

func (r *ListRequest) Validate() error {
	return nil
}
