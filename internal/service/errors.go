package service

import (
	"errors"
	"fmt"

	"go-signshop-api/internal/ws"
	"go-signshop-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func duplicate(what, value string) error {
	return fmt.Errorf("%s '%s' %w", what, value, ErrDuplicate)
}

// lookupErr turns gorm's not-found into ErrNotFound and passes anything else through.
func lookupErr(err error, what string) error {
	if isNotFound(err) {
		return notFound(what)
	}
	return err
}

// saveErr reports a unique index violation as ErrDuplicate. The name check
// runs before the write, so this only fires when two writers race.
func saveErr(err error, what, value string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate(what, value)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// validate runs struct tags and reports the first failing field.
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		if first.FailedField == "" {
			return invalid("Validation failed: %s", first.Tag)
		}
		return invalid("Validation failed: Field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	return nil
}

// Publisher receives change events. The WebSocket hub implements it.
type Publisher interface {
	Publish(event ws.Event)
}

func publish(p Publisher, event ws.Event) {
	if p != nil {
		p.Publish(event)
	}
}
