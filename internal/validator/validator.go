package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with json field names and the
// custom rules the request DTOs rely on.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New()

	// Report json tag names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

// Validate validates a struct and returns a flattened error message.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func (v *Validator) registerRules() {
	// Indian-style mobile numbers: 10 digits, optional country prefix
	_ = v.validate.RegisterValidation("mobile_number", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		digits := strings.TrimPrefix(strings.TrimPrefix(value, "+91"), "0")
		if len(digits) != 10 {
			return false
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	_ = v.validate.RegisterValidation("lab_section", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "CFLC", "GROK":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("grok_specialization", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "IOT", "Robotics", "3D Printing", "ABC of Technology":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "admin", "sub_admin", "lab_head", "teacher", "student":
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("performance_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "Excellent", "Satisfactory", "Needs Improvement":
			return true
		}
		return false
	})

	// School standards run 1st through 12th
	_ = v.validate.RegisterValidation("standard", func(fl validator.FieldLevel) bool {
		std := fl.Field().Int()
		return std >= 1 && std <= 12
	})
}
