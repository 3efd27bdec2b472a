package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

var initOnce sync.Once

// Init configures the validator used by Gin's binding. Safe to call repeatedly.
// - Uses JSON tag names in errors.
// - Registers enum tags for the user status and listing parameters.
func Init() {
	initOnce.Do(register)
}

func register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// enum tags accept exactly what the entity parsers accept, case-insensitively
		_ = v.RegisterValidation("userstatus", parses(func(s string) bool {
			_, err := entity.ParseUserStatus(s)
			return err == nil
		}))
		_ = v.RegisterValidation("statusfilter", parses(func(s string) bool {
			_, ok := entity.ParseStatusFilter(s)
			return ok
		}))
		_ = v.RegisterValidation("sortfield", parses(func(s string) bool {
			_, ok := entity.ParseSortField(s)
			return ok
		}))
		_ = v.RegisterValidation("sortorder", parses(func(s string) bool {
			_, ok := entity.ParseSortOrder(s)
			return ok
		}))
	}
}

func parses(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && ok(fl.Field().String())
	}
}

// ToDetails converts binding errors into a map[field]message for error details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return map[string]string{"query": "invalid number"}
	}

	var pe *time.ParseError
	if errors.As(err, &pe) {
		return map[string]string{"payload": "invalid timestamp"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uri", "url":
		return "must be a valid URI"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "userstatus":
		return "must be one of: Active, Inactive"
	case "statusfilter":
		return "must be one of: All, Active, Inactive"
	case "sortfield":
		return "must be one of: name, createdAt"
	case "sortorder":
		return "must be one of: asc, desc"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
