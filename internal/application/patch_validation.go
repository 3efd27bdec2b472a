package application

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

var ErrInvalidUpdate = errors.New("invalid user update")

// InvalidUpdateError lists the rejected fields of a patch, keyed by JSON field name.
type InvalidUpdateError struct {
	Fields map[string]string
}

func (e *InvalidUpdateError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrInvalidUpdate.Error() + ": " + strings.Join(parts, ", ")
}

func (e *InvalidUpdateError) Is(target error) bool { return target == ErrInvalidUpdate }

var patchValidator = validator.New()

// ValidatePatch enforces the edit rules at the store boundary.
func ValidatePatch(p entity.UserPatch) error {
	fields := map[string]string{}
	if p.Empty() {
		fields["patch"] = "must set at least one field"
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fields["name"] = "is required"
	}
	if p.Email != nil && patchValidator.Var(*p.Email, "required,email") != nil {
		fields["email"] = "must be a valid email"
	}
	if p.Status != nil && !p.Status.Valid() {
		fields["status"] = "must be one of: Active, Inactive"
	}
	if p.Avatar != nil && *p.Avatar != "" && patchValidator.Var(*p.Avatar, "uri") != nil {
		fields["avatar"] = "must be a valid URI"
	}
	if p.LastActive != nil && p.LastActive.IsZero() {
		fields["last_active"] = "must be a valid timestamp"
	}
	if len(fields) > 0 {
		return &InvalidUpdateError{Fields: fields}
	}
	return nil
}
