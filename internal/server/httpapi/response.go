package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipstream/accounts/internal/common"
)

// Response is the envelope for every successful reply.
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorResponse is the envelope for every failed reply.
type ErrorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		Status:  status,
		Data:    data,
		Message: message,
		Success: true,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Status:  status,
		Message: message,
		Success: false,
		Errors:  []string{},
	})
}

// respondServiceError translates a service-layer error into the HTTP
// envelope. Unrecognized errors become a generic 500 so that internal
// details never leak to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUpload):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
