package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/redconnect/redconnect-api/internal/model"
)

// RegisterValidators installs the custom binding validators used by
// request models. Panics on registration failure since the tags are
// compiled in.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	if err := v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return model.ValidBloodGroup(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}
