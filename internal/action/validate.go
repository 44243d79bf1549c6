package action

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	v             *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v = validator.New()
	})
	return v
}

// ValidationError is returned for any field that fails its constraint,
// rendered as "<path>: <msg>" to match the parser's
// "[<tag>] Validation error: <path>: <msg>" envelope.
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Msg) }

func fieldErrf(path, format string, args ...interface{}) error {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Validate runs struct-tag validation plus any variant-specific rule
// (e.g. BatchTodo's per-operation constraints) and normalizes the
// first failure into a ValidationError.
func Validate(a Action) error {
	if err := getValidator().Struct(a); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fieldErrf(fe.Namespace(), "failed on the '%s' constraint", fe.Tag())
		}
		return fieldErrf(string(a.Kind()), "%v", err)
	}

	switch v := a.(type) {
	case BatchTodo:
		if err := v.ValidateOps(); err != nil {
			return err
		}
	}

	return nil
}

// Envelope renders a validation error using the action-output wire format.
func Envelope(tag string, err error) string {
	return fmt.Sprintf("[%s] Validation error: %s", tag, err.Error())
}
