package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─── REQUEST VALIDATION ───────────────────────────────────────────────────────

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// missingFieldsResponse is the 400 body for absent required fields.
type missingFieldsResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// validate checks dst against its validate tags. Returns false and writes 400
// on failure: absent required fields are listed together; the first malformed
// field is reported as "<field>: <reason>". Callers should return on false.
func (s *Server) validate(w http.ResponseWriter, dst any) bool {
	err := s.validator.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondErr(w, http.StatusBadRequest, err.Error())
		return false
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		respond(w, http.StatusBadRequest, missingFieldsResponse{
			Error:   "missing required fields",
			Missing: missing,
		})
		return false
	}

	respondErr(w, http.StatusBadRequest, fieldReason(verrs[0]))
	return false
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s: must be a date in YYYY-MM-DD format", fe.Field())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag())
	}
}
