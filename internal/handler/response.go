package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

const (
	errTypeValidation = "validation_error"
	errTypeNotFound   = "not_found"
	errTypeConflict   = "conflict"
	errTypeRejected   = "rejected"
	errTypeProcessing = "processing_error"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(dst); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.FullPath()),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return false
	}

	if err := validate.StructCtx(ctx, dst); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.FullPath()),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, validationMessage(err))
		return false
	}

	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// respondServiceError maps domain sentinels to HTTP statuses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUserStateNotFound), errors.Is(err, domain.ErrNotificationNotFound):
		respondError(c, http.StatusNotFound, errTypeNotFound, err.Error())
	case errors.Is(err, domain.ErrPassInProgress):
		respondError(c, http.StatusConflict, errTypeConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownEvent), errors.Is(err, domain.ErrMissingFireDate),
		errors.Is(err, domain.ErrInvalidPriority):
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), fallback,
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, fallback)
	}
}
