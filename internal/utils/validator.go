// internal/utils/validator.go
package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/otakughor/backend/internal/models"
)

var (
	validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("product_category", func(fl validator.FieldLevel) bool {
		return models.ProductCategory(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		return models.NotificationType(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("notification_priority", func(fl validator.FieldLevel) bool {
		return models.NotificationPriority(fl.Field().String()).Valid()
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Letters, digits and underscores, 3-30 characters
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// NewValidationError builds a single detail entry for rules that struct
// tags cannot express.
func NewValidationError(field, tag, message string) ValidationError {
	return ValidationError{Field: field, Tag: tag, Message: message}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func getValidationMessage(e validator.FieldError) string {
	field := lowerFirst(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind().String() == "string" {
			return field + " must be at least " + e.Param() + " characters"
		}
		if e.Kind().String() == "slice" {
			return field + " must contain at least " + e.Param() + " item(s)"
		}
		return field + " must be at least " + e.Param()
	case "max":
		if e.Kind().String() == "string" {
			return field + " must be at most " + e.Param() + " characters"
		}
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "username":
		return "Username must be 3-30 characters and contain only letters, numbers, and underscores"
	case "product_category":
		return "category must be one of: " + joinCategories()
	case "payment_method":
		return "paymentMethod must be one of: cod, bkash, nagad, rocket"
	case "order_status":
		return "orderStatus must be one of: pending, processing, shipped, delivered, cancelled"
	case "payment_status":
		return "paymentStatus must be one of: pending, paid, failed, refunded"
	case "notification_type":
		return "type must be one of: order, product, user, system, inventory, payment"
	case "notification_priority":
		return "priority must be one of: low, medium, high, urgent"
	default:
		return field + " is invalid"
	}
}

func joinCategories() string {
	names := make([]string, len(models.ProductCategories))
	for i, c := range models.ProductCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
