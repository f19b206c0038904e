package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/ipl2sql/internal/store"
)

//go:embed schema.cue
var schemaSource string

// Validation error codes (E200-E299)
const (
	ErrCodeSchema   = "E201" // value rejected by the schema
	ErrCodeRequired = "E202" // field required by the selected driver
	ErrCodeInternal = "E299" // schema could not be evaluated
)

// ValidationError is one rejected setting.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks c against the schema and the driver's required fields.
// Returns all errors found (does not fail-fast).
func (c Config) Validate() []ValidationError {
	errs := validateSchema(c)

	if store.Driver(c.Driver) == store.DriverMySQL {
		if c.Host == "" {
			errs = append(errs, ValidationError{Field: "host", Message: "host is required for mysql", Code: ErrCodeRequired})
		}
		if c.User == "" {
			errs = append(errs, ValidationError{Field: "user", Message: "user is required for mysql", Code: ErrCodeRequired})
		}
	}
	return errs
}

// Err joins the validation errors into one error, or nil.
func Err(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func validateSchema(c Config) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrCodeInternal}}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return []ValidationError{{Field: "config", Message: err.Error(), Code: ErrCodeInternal}}
	}

	err := def.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   fieldOf(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
		})
	}
	return errs
}

// fieldOf drops the definition name from a CUE error path.
func fieldOf(path []string) string {
	if len(path) > 0 && path[0] == "#Config" {
		path = path[1:]
	}
	if len(path) == 0 {
		return "config"
	}
	return strings.Join(path, ".")
}
