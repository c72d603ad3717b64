package controller

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

// HeaderCallerId carries the opaque caller identity issued by the
// identity provider. The service never derives identity itself.
const HeaderCallerId = "X-User-Id"

const contextCallerKey = "callerId"

type errorResponse struct {
	Reason string `json:"reason"`
}

func requireCaller(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller := strings.TrimSpace(c.Request().Header.Get(HeaderCallerId))
		if caller == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{"Caller identity is required"})
		}

		c.Set(contextCallerKey, caller)

		return next(c)
	}
}

func callerId(c echo.Context) string {
	caller, _ := c.Get(contextCallerKey).(string)
	return caller
}

func getAllErrorMessages(err error) string {
	var builder strings.Builder
	for _, fe := range err.(validator.ValidationErrors) {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	if fe.Type() == reflect.TypeOf("") {
		return getMessageForString(fe)
	}

	return getMessageForNumber(fe)
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	}

	return "incorrect value passed"
}
