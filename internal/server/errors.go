package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/pkg/db/pagination"
)

// errorResponse is the failure envelope shared by every route.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor", Code: "internal_error"}
	case isValidationError(err):
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorResponse{Error: validationErrorMessage(code), Code: code}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{Error: "Cotización no encontrada", Code: "not_found"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor", Code: "internal_error"}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pagination.ErrInvalidPageToken),
		domain.IsValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, domain.ErrNotFound)
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return ErrInvalidRequest.Error()
	case errors.Is(err, pagination.ErrInvalidPageToken):
		return pagination.ErrInvalidPageToken.Error()
	case errors.Is(err, domain.ErrInvalidClientName):
		return domain.ErrInvalidClientName.Error()
	case errors.Is(err, domain.ErrInvalidClientEmail):
		return domain.ErrInvalidClientEmail.Error()
	case errors.Is(err, domain.ErrEmptyItems):
		return domain.ErrEmptyItems.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return domain.ErrInvalidStatus.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return domain.ErrInvalidID.Error()
	default:
		return err.Error()
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case domain.ErrInvalidClientName.Error(),
		domain.ErrInvalidClientEmail.Error(),
		domain.ErrEmptyItems.Error():
		return "Faltan datos obligatorios"
	case domain.ErrInvalidStatus.Error():
		return "Estado de cotización inválido"
	case pagination.ErrInvalidPageToken.Error():
		return "Token de página inválido"
	default:
		return "Solicitud inválida"
	}
}

// classifyErrorForLog returns the error type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch status {
	case http.StatusBadRequest:
		return "validation_error", payload.Code
	case http.StatusNotFound:
		return "not_found", payload.Code
	default:
		return "internal_error", payload.Code
	}
}
