package req

import (
	"io"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode - разбор JSON тела и проверка тегов validate
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if err := render.DecodeJSON(body, &payload); err != nil {
		return payload, err
	}
	if err := validate.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}
