package http

import (
	"fmt"
	"strings"

	"pawnchess/internal/board"
	"pawnchess/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// square: algebraic coordinate a1..h8, lowercase file
	v.RegisterValidation("square", func(fl validator.FieldLevel) bool {
		return board.ValidateSquare(fl.Field().String()) == nil
	})
	return v
}

// validationMiddleware parses and validates request bodies before the handler runs
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	default:
		return c.Next() // No validation for bodiless endpoints
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(requestType); errs != nil {
		var details strings.Builder
		code := core.ErrInvalidCoordinate
		for _, err := range errs.(validator.ValidationErrors) {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "square":
				reason := board.ValidateSquare(fmt.Sprint(err.Value()))
				details.WriteString(fmt.Sprintf("%s: %v", strings.ToLower(err.Field()), reason))
			case "required":
				code = core.ErrInvalidRequest
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			default:
				code = core.ErrInvalidRequest
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    code,
			Details: details.String(),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
