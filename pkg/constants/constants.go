package constants

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	TenantIDKey ContextKey = "tenant_id"
	UserKey     ContextKey = "user"
	LoggerKey   ContextKey = "logger"
	ParamsKey   ContextKey = "params"
	RequestIDKey ContextKey = "request_id"
)

// Validate is the shared validator instance used by all DTOs.
var Validate = newValidator()

var hexColor6 = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 6-hex-digit color, optional leading '#'. The builtin hexcolor tag also
	// accepts the 3-digit shorthand, which group colors do not allow.
	if err := v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColor6.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}
