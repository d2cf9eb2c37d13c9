package resp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSONResponse(w, r, status, ErrorResponse{Status: status, Error: msg})
}

// WriteDecodeError - 400 с перечнем полей, не прошедших проверку
func WriteDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	WriteError(w, r, http.StatusBadRequest, strings.Join(msgs, ", "))
}
