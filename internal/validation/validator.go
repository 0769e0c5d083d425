// Package validation checks request payloads before they reach the auth service.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SpecialCharacters are the characters that satisfy the special-character password rule
const SpecialCharacters = `!@#$%^&*(),.?":{}|<>`

// FieldError is a single failed rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a payload
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=8,maxbytes=72,hasupper,haslower,hasdigit,hasspecial"`
	UserType  string `json:"user_type" validate:"omitempty,max=50"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ChatRequest is the chat payload
type ChatRequest struct {
	Prompt    string `json:"prompt" validate:"required,max=4000"`
	SessionID string `json:"session_id,omitempty"`
}

// Validator wraps a configured validator.Validate; it is safe for concurrent use
type Validator struct {
	v *validator.Validate
}

// New configures JSON field names and the password aliases
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt rejects input over 72 bytes, which max (a rune count) does not catch
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	v.RegisterAlias("hasupper", "containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	v.RegisterAlias("haslower", "containsany=abcdefghijklmnopqrstuvwxyz")
	v.RegisterAlias("hasdigit", "containsany=0123456789")
	// commas and pipes are tag separators, so they go in as their 0x escapes
	special := strings.NewReplacer(",", "0x2C", "|", "0x7C").Replace(SpecialCharacters)
	v.RegisterAlias("hasspecial", "containsany="+special)
	return &Validator{v: v}
}

// Struct validates s and returns a *ValidationError describing every failed field
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// DecodeError converts a JSON decoding failure into a ValidationError on the payload
func DecodeError(err error) *ValidationError {
	msg := "invalid payload"
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is empty"
	case errors.As(err, &se), errors.Is(err, io.ErrUnexpectedEOF):
		msg = "invalid json"
	case errors.As(err, &ute):
		return &ValidationError{Fields: []FieldError{{Field: ute.Field, Message: "has the wrong type"}}}
	}
	return &ValidationError{Fields: []FieldError{{Field: "payload", Message: msg}}}
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", label, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be %s bytes or less", label, fe.Param())
	case "hasupper":
		return label + " must contain at least one uppercase letter"
	case "haslower":
		return label + " must contain at least one lowercase letter"
	case "hasdigit":
		return label + " must contain at least one digit"
	case "hasspecial":
		return label + " must contain at least one special character"
	default:
		return fmt.Sprintf("%s failed the %q rule", label, fe.Tag())
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// humanize turns "first_name" into "First name"
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
