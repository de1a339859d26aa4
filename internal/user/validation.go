package user

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const MsgNoFieldsToUpdate = "No fields to update"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks create and update payloads. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	if err := validate.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register emailshape validation: %v", err))
	}

	return &Validator{validate: validate}
}

// ValidateCreate normalizes in and checks every field; all three are required.
func (v *Validator) ValidateCreate(in *CreateUserInput) error {
	in.normalize()
	return v.check(in, true)
}

// ValidateUpdate normalizes in and checks the fields that are present.
func (v *Validator) ValidateUpdate(in *UpdateUserInput) error {
	if in.IsEmpty() {
		return newValidationError(MsgNoFieldsToUpdate)
	}
	in.normalize()
	return v.check(in, false)
}

// check runs the struct rules. On create a present but empty name or email
// counts as missing.
func (v *Validator) check(in interface{}, creating bool) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe, creating))
	}

	return newValidationError(messages...)
}

func fieldMessage(fe validator.FieldError, creating bool) string {
	emptyOnCreate := creating && fe.Tag() == "min"

	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" || emptyOnCreate {
			return "Name is required"
		}
		return "Name must be between 1 and 255 characters"
	case "Email":
		switch {
		case fe.Tag() == "required" || emptyOnCreate:
			return "Email is required"
		case fe.Tag() == "max":
			return "Email must not exceed 255 characters"
		default:
			return "Invalid email format"
		}
	default:
		if fe.Tag() == "required" {
			return "Age is required"
		}
		return "Age must be between 1 and 150"
	}
}
