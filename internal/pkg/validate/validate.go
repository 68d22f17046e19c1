// Package validate - проверка входных DTO через validator/v10 с ошибками в формате domain.ValidationError
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// Имена полей в ошибках берем из json тегов
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return instance
}

// Struct проверяет структуру по тегам validate
// Нарушения возвращаются как *domain.ValidationError с сообщением на каждое поле
func Struct(v interface{}) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "lte":
		return "Ensure this value is less than or equal to " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
