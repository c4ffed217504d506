// Package validator provides the payload validation rules shared by the
// transaction operations and Gin's binding engine.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"moneyguard/internal/models"
)

// Register registers all custom validators with the Gin binding engine and
// makes its errors use JSON field names.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
		registerRules(v)
	}
}

// New returns a validator with the custom rules registered. Field names in
// errors are the JSON names, so messages read "categoryId is required".
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	registerRules(v)
	return v
}

func registerRules(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("iso_date", validateISODate)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	}
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Describe turns a validation error into a single user-facing sentence.
// Only the first failing field is reported.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "transaction_type":
		return fmt.Sprintf("%s must be INCOME or EXPENSE", fe.Field())
	case "iso_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
