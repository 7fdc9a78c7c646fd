package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return ExpenseCategory(fl.Field().String()).Valid()
	})
}

// ValidateDraft checks the fields a caller must supply before Create.
// The store and the gateway do not call it.
func ValidateDraft(d Draft) error {
	if err := validate.Struct(d); err != nil {
		return formatValidationErrors(err)
	}
	for _, r := range d.RSVPs {
		if !ValidRating(r.Rating) {
			return ErrValidationMeta("rating must be between 0 and 10", map[string]string{"user_id": r.UserID})
		}
	}
	return CheckRSVPs(d.RSVPs)
}

func ValidateExpense(e Expense) error {
	if err := validate.Struct(e); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return ErrValidation(err.Error())
	}
	messages := make([]string, 0, len(ves))
	for _, fe := range ves {
		messages = append(messages, formatFieldError(fe))
	}
	return ErrValidation(strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s form", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "expense_category":
		return fmt.Sprintf("%s must be one of food, drinks, transport, activities, accommodation, other", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
