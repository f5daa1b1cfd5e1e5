package model

import "github.com/go-playground/validator/v10"

// ValidCallCategory backs the call_category binding tag.
func ValidCallCategory(fl validator.FieldLevel) bool {
	return CallCategory(fl.Field().String()).Valid()
}
